package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/schedule"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/utils"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

var dumper = spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}

type debugData struct {
	Title     string
	Pre       string
	DataTypes []string
}

var dataTypes = []string{"status", "bus", "trolleybus", "favorites"}

func writeDebugData(w http.ResponseWriter, r *http.Request, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		Pre:       dumper.Sdump(data),
		DataTypes: dataTypes,
	})
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to render debug page", err)
	}
}

// debugIndexHandler dumps what the stores currently hold. It never triggers
// a refresh.
func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var data interface{}
	var title string

	switch q.Get("dataType") {
	case "status":
		statuses := make([]schedule.Status, 0, len(webUI.Schedules))
		for _, class := range models.VehicleClasses {
			if store, ok := webUI.Schedules[class]; ok {
				statuses = append(statuses, store.Status())
			}
		}
		data = statuses
		title = "Schedule stores - Status"
	case "bus":
		data = webUI.snapshotVehicles(models.Bus)
		title = "Schedule - Buses"
	case "trolleybus":
		data = webUI.snapshotVehicles(models.Trolleybus)
		title = "Schedule - Trolleybuses"
	case "favorites":
		user := q.Get("user")
		if err := utils.ValidateID(user); err != nil {
			data = map[string]string{"error": "favorites needs a valid user parameter: " + err.Error()}
			title = "Favorites"
			break
		}
		c, err := webUI.Favorites.List(r.Context(), user)
		if err != nil {
			data = map[string]string{"error": err.Error()}
		} else {
			data = c
		}
		title = "Favorites - " + user
	default:
		data = map[string]string{
			"error": "Please use one of the following: status, bus, trolleybus, favorites (with user).",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, r, title, data)
}

// snapshotVehicles reads the store's current snapshot without refreshing.
func (webUI *WebUI) snapshotVehicles(class models.VehicleClass) interface{} {
	store, ok := webUI.Schedules[class]
	if !ok {
		return nil
	}
	return store.Current().SortedVehicles()
}
