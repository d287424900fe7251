package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikepulse/internal/shared/testutil"
	"bikepulse/pkg/contracts"
)

func TestPageHandler(t *testing.T) {
	frontend := fstest.MapFS{
		IndexPage:    {Data: []byte(`<title>{{.Title}}</title><meta name="version" content="{{.Version}}">`)},
		"styles.css": {Data: []byte("body{margin:0}")},
	}
	logger, _ := testutil.NewTestLogger(t)

	h, err := NewPageHandler(frontend, logger)
	require.NoError(t, err)

	t.Run("index is rendered", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "<title>Bike Sharing Dashboard</title>")
		assert.Contains(t, rec.Body.String(), contracts.Version)
	})

	t.Run("assets are served", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeAssets().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/styles.css", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "body{margin:0}", rec.Body.String())
	})
}

func TestPageHandlerMissingIndex(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	_, err := NewPageHandler(fstest.MapFS{}, logger)
	assert.Error(t, err)
}
