package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/thushan/olla-explorer/internal/core/constants"
	"github.com/thushan/olla-explorer/internal/util"
	"github.com/thushan/olla-explorer/internal/version"
	"github.com/thushan/olla-explorer/pkg/format"
)

type versionResponse struct {
	version.Info
	Build     buildInfo         `json:"build"`
	Uptime    string            `json:"uptime"`
	Endpoints map[string]string `json:"endpoints"`
	Links     map[string]string `json:"links"`
}

type buildInfo struct {
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func (a *Application) versionHandler(w http.ResponseWriter, _ *http.Request) {
	_ = util.WriteJSON(w, http.StatusOK, versionResponse{
		Info: version.Current(),
		Build: buildInfo{
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		},
		Uptime: format.Duration(time.Since(a.StartTime)),
		Endpoints: map[string]string{
			"fetch":   constants.PathFetch,
			"health":  constants.PathHealth,
			"stats":   constants.PathInternalStats,
			"process": constants.PathInternalProc,
			"metrics": constants.PathMetrics,
		},
		Links: map[string]string{
			"homepage": version.GithubHomeUri,
			"releases": version.GithubLatestUri,
		},
	})
}
