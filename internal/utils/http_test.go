package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestPathParam(t *testing.T) {
	tests := map[string]string{
		"/vehicles/bus":             "bus",
		"/vehicles/trolleybus.json": "trolleybus",
		"/vehicles/bus.json.json":   "bus.json",
	}

	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			var got string
			router := httprouter.New()
			router.HandlerFunc(http.MethodGet, "/vehicles/:class", func(w http.ResponseWriter, r *http.Request) {
				got = PathParam(r, "class")
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, want, got)
		})
	}

	t.Run("missing parameter", func(t *testing.T) {
		assert.Empty(t, PathParam(httptest.NewRequest(http.MethodGet, "/", nil), "class"))
	})
}
