package handlers

import (
	_ "embed"
	"net/http"

	"github.com/thushan/olla-explorer/internal/core/constants"
)

//go:embed static/index.html
var indexHTML []byte

func (a *Application) indexHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeHTML)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexHTML)
}
