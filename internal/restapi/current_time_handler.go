package restapi

import (
	"net/http"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	timeData := models.NewCurrentTimeModel(api.Engine.Now(), api.Location)
	api.sendResponse(w, r, models.NewEntryResponse(timeData))
}
