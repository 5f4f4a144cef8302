package app

import (
	"net/http"
	"slices"
)

// APIKeyHeader is accepted as an alternative to the "key" query parameter.
const APIKeyHeader = "X-API-Key"

// RequestHasInvalidAPIKey checks the "key" query parameter, then APIKeyHeader.
func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	key := r.URL.Query().Get("key")
	if key == "" {
		key = r.Header.Get(APIKeyHeader)
	}
	return app.IsInvalidAPIKey(key)
}

func (app *Application) IsInvalidAPIKey(key string) bool {
	return key == "" || !slices.Contains(app.Config.ApiKeys, key)
}
