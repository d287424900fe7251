package main

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikepulse/internal/config"
	"bikepulse/internal/shared/testutil"
	handlers "bikepulse/internal/transport/http"
)

func TestEmbeddedFrontend(t *testing.T) {
	frontendFS, err := frontend()
	require.NoError(t, err)

	for _, name := range []string{handlers.IndexPage, "dashboard.js", "dashboard.css"} {
		_, err := fs.Stat(frontendFS, name)
		assert.NoError(t, err, name)
	}
}

func TestEmbeddedPageRenders(t *testing.T) {
	frontendFS, err := frontend()
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	page, err := handlers.NewPageHandler(frontendFS, logger)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	page.ServeIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>"+config.AppTitle+"</title>")
	assert.Contains(t, body, "https://cdn.plot.ly/")
	assert.Contains(t, body, "/static/dashboard.js")
	assert.NotContains(t, body, "{{")
}
