package utils

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// PathParam returns the named httprouter parameter with an optional ".json"
// suffix removed, so "/vehicles/bus" and "/vehicles/bus.json" resolve alike.
func PathParam(r *http.Request, name string) string {
	value := httprouter.ParamsFromContext(r.Context()).ByName(name)
	return strings.TrimSuffix(value, ".json")
}
