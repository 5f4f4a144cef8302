package models

import "time"

// CurrentTimeModel Current time specific model
type CurrentTimeModel struct {
	ReadableTime string  `json:"readableTime"`
	Time         int64   `json:"time"`
	TimeZone     string  `json:"timeZone"`
	DayType      DayType `json:"dayType"`
}

// NewCurrentTimeModel describes t in the bot's time zone, including the
// day-type schedules are picked by.
func NewCurrentTimeModel(t time.Time, loc *time.Location) CurrentTimeModel {
	local := t.In(loc)
	return CurrentTimeModel{
		ReadableTime: local.Format(time.RFC3339),
		Time:         t.UnixNano() / int64(time.Millisecond),
		TimeZone:     loc.String(),
		DayType:      DayTypeFor(local),
	}
}
