package models

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponse(t *testing.T) {
	before := time.Now().UnixNano() / int64(time.Millisecond)
	response := NewResponse(http.StatusCreated, map[string]string{"key": "value"}, "Resource Created")
	after := time.Now().UnixNano() / int64(time.Millisecond)

	assert.Equal(t, http.StatusCreated, response.Code)
	assert.Equal(t, "Resource Created", response.Text)
	assert.Equal(t, 2, response.Version)
	assert.GreaterOrEqual(t, response.CurrentTime, before)
	assert.LessOrEqual(t, response.CurrentTime, after)
}

func TestNewEntryResponse(t *testing.T) {
	entry := View{Kind: ViewVehicleList, Class: Bus, Buttons: []Button{}}
	response := NewEntryResponse(entry)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "OK", response.Text)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, entry, data["entry"])
}

func TestActionResultJSON(t *testing.T) {
	result := ActionResult{Notice: &Notice{Kind: NoticeNotFound, Text: "not found", Alert: true}}

	b, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"notice": {"kind": "not_found", "text": "not found", "alert": true}}`, string(b))
}

func TestNewCurrentTimeModel(t *testing.T) {
	minsk, err := time.LoadLocation("Europe/Minsk")
	require.NoError(t, err)

	saturday := time.Date(2025, 6, 7, 9, 0, 0, 0, minsk)
	model := NewCurrentTimeModel(saturday, minsk)

	assert.Equal(t, Weekend, model.DayType)
	assert.Equal(t, "Europe/Minsk", model.TimeZone)
	assert.Equal(t, saturday.UnixMilli(), model.Time)
	assert.Equal(t, "2025-06-07T09:00:00+03:00", model.ReadableTime)
}
