package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/app"
)

type WebUI struct {
	*app.Application
}

func New(application *app.Application) *WebUI {
	return &WebUI{Application: application}
}

// SetWebUIRoutes registers the debug pages. They are only mounted outside
// production.
func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}
