package restapi

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/appconf"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// protected checks the API key before the request is charged to the rate
// limiter, so callers without a valid key never get a limiter bucket.
func (api *RestAPI) protected(h handlerFunc) http.Handler {
	return validateAPIKey(api, api.rateLimiter.Handler(http.HandlerFunc(h)).ServeHTTP)
}

func registerPprofHandlers(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/debug/pprof/*item", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch httprouter.ParamsFromContext(r.Context()).ByName("item") {
		case "/cmdline":
			pprof.Cmdline(w, r)
		case "/profile":
			pprof.Profile(w, r)
		case "/symbol":
			pprof.Symbol(w, r)
		case "/trace":
			pprof.Trace(w, r)
		default:
			pprof.Index(w, r)
		}
	}))
}

// SetRoutes registers the bot API on router.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/where/current-time.json", api.protected(api.currentTimeHandler))
	router.Handler(http.MethodGet, "/api/where/vehicles/:class", api.protected(api.vehiclesHandler))
	router.Handler(http.MethodPost, "/api/where/action.json", api.protected(api.actionHandler))
	router.Handler(http.MethodGet, "/api/where/favorites.json", api.protected(api.favoritesHandler))
	router.Handler(http.MethodPost, "/api/where/refresh/:class", api.protected(api.refreshHandler))
	router.HandlerFunc(http.MethodGet, "/healthz", api.healthHandler)

	router.NotFound = http.HandlerFunc(api.sendNotFound)
	router.HandleOPTIONS = false

	if api.Config.Env == appconf.Development {
		registerPprofHandlers(router)
	}
}

// Handler returns the full middleware chain around a router carrying the
// API routes and anything register adds.
func (api *RestAPI) Handler(register ...func(*httprouter.Router)) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	for _, fn := range register {
		fn(router)
	}

	var handler http.Handler = router
	handler = CompressionMiddleware(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = securityHeaders(handler)
	return handler
}
