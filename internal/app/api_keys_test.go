package app

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gangsta0607/mglv-public-transport-bot/internal/appconf"
)

func TestBlankKeyIsInvalid(t *testing.T) {
	app := &Application{
		Config: appconf.Config{
			ApiKeys: []string{"key"},
		},
	}
	assert.True(t, app.IsInvalidAPIKey(""))
	assert.True(t, app.IsInvalidAPIKey("other"))
	assert.False(t, app.IsInvalidAPIKey("key"))
}

func TestRequestAPIKeySources(t *testing.T) {
	app := &Application{
		Config: appconf.Config{
			ApiKeys: []string{"key"},
		},
	}

	assert.False(t, app.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/x?key=key", nil)))

	r := httptest.NewRequest("GET", "/x", nil)
	r.Header.Set(APIKeyHeader, "key")
	assert.False(t, app.RequestHasInvalidAPIKey(r))

	assert.True(t, app.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/x", nil)))
	assert.True(t, app.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/x?key=nope", nil)))
}
