package restapi

import (
	"net/http"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

func (api *RestAPI) favoritesHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := api.requireUser(w, r)
	if !ok {
		return
	}

	view, err := api.Engine.FavoritesList(r.Context(), user)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(view))
}
