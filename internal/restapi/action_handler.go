package restapi

import (
	"net/http"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

type actionRequest struct {
	Token string `json:"token" validate:"required,max=256"`
}

// actionHandler feeds one button token through the navigation engine. Invalid
// or stale tokens are not HTTP errors: the result carries a notice for the user.
func (api *RestAPI) actionHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := api.requireUser(w, r)
	if !ok {
		return
	}

	var req actionRequest
	if !api.decodeJSONBody(w, r, &req) {
		return
	}

	result := api.Engine.Handle(r.Context(), user, req.Token)
	api.sendResponse(w, r, models.NewEntryResponse(result))
}
