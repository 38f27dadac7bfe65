package handlers

import (
	"net/http"

	"github.com/thushan/olla-explorer/internal/util"
	"github.com/thushan/olla-explorer/internal/version"
)

const statusHealthy = "healthy"

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (a *Application) healthHandler(w http.ResponseWriter, _ *http.Request) {
	_ = util.WriteJSON(w, http.StatusOK, healthResponse{
		Status:  statusHealthy,
		Version: version.Version,
	})
}
