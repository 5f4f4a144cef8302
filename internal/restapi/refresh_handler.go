package restapi

import (
	"log/slog"
	"net/http"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/logging"
	"github.com/Gangsta0607/mglv-public-transport-bot/internal/models"
)

// refreshHandler forces a collection for one class and reports the store's
// state afterwards. A failed collection still answers 200; the status carries
// lastError and the previous snapshot keeps being served.
func (api *RestAPI) refreshHandler(w http.ResponseWriter, r *http.Request) {
	class, ok := classParam(r)
	if !ok {
		api.sendNotFound(w, r)
		return
	}
	store, ok := api.Schedules[class]
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	snap := store.Get(r.Context(), true)
	logging.FromContext(r.Context()).Info("forced schedule refresh",
		slog.String("class", string(class)),
		slog.Uint64("generation", snap.Generation))

	api.sendResponse(w, r, models.NewEntryResponse(store.Status()))
}
