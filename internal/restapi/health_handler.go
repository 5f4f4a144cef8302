package restapi

import (
	"net/http"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/schedule"
)

type healthReport struct {
	Status    string            `json:"status"`
	Schedules []schedule.Status `json:"schedules"`
}

// healthHandler never triggers a refresh. It answers 503 until every class
// has a snapshot to serve.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	report := healthReport{Status: "ok"}
	code := http.StatusOK
	for _, class := range models.VehicleClasses {
		store, ok := api.Schedules[class]
		if !ok {
			continue
		}
		st := store.Status()
		report.Schedules = append(report.Schedules, st)
		switch {
		case st.Vehicles == 0:
			report.Status = "unavailable"
			code = http.StatusServiceUnavailable
		case st.Stale && report.Status == "ok":
			report.Status = "stale"
		}
	}

	setJSONResponseType(&w)
	w.WriteHeader(code)
	api.sendResponse(w, r, models.NewResponse(code, report, report.Status))
}
