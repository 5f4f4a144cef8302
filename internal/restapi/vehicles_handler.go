package restapi

import (
	"errors"
	"net/http"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/navigation"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/utils"
)

// classParam resolves the :class path parameter ("bus", "bus.json").
func classParam(r *http.Request) (models.VehicleClass, bool) {
	class, err := models.ParseVehicleClass(utils.PathParam(r, "class"))
	return class, err == nil
}

func (api *RestAPI) vehiclesHandler(w http.ResponseWriter, r *http.Request) {
	class, ok := classParam(r)
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	view, err := api.Engine.VehicleList(r.Context(), class)
	switch {
	case errors.Is(err, navigation.ErrUnavailable):
		api.unavailableResponse(w, r)
		return
	case errors.Is(err, navigation.ErrNotFound):
		api.sendNotFound(w, r)
		return
	case err != nil:
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(view))
}
