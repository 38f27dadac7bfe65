package handlers

import (
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/thushan/olla-explorer/internal/app/middleware"
	"github.com/thushan/olla-explorer/internal/core/domain"
	"github.com/thushan/olla-explorer/internal/util"
)

// fetchHandler aggregates the model inventory of every server in the body.
// Individual servers failing is reported in the result, only an unusable
// request is an error.
func (a *Application) fetchHandler(w http.ResponseWriter, r *http.Request) {
	log := middleware.GetLogger(r.Context(), a.logger)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			util.WriteJSONError(w, http.StatusRequestEntityTooLarge, domain.ErrPayloadTooLarge.Error())
			return
		}
		log.Debug("Unable to read fetch request", "error", err)
		util.WriteJSONError(w, http.StatusBadRequest, domain.ErrInvalidPayload.Error())
		return
	}

	servers, err := parseFetchRequest(body)
	if err != nil {
		log.Debug("Rejected fetch request", "reason", err)
		util.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if a.containerised && anyLoopback(servers) {
		log.Warn("Loopback servers resolve to this container, not the host running Ollama", "servers", servers)
	}

	result := a.aggregator.Aggregate(r.Context(), servers)

	log.Debug("Fetch complete",
		"servers", len(result.ServerResults),
		"failed", result.FailedServers(),
		"models", len(result.Models))

	if err := util.WriteJSON(w, http.StatusOK, result); err != nil {
		log.Debug("Failed writing fetch response", "error", err)
	}
}

// parseFetchRequest pulls the server list out of {"servers": [...]}. Empty
// bodies, non-objects and {} are all an invalid payload. A falsy servers
// value means none were provided; entries that aren't strings are skipped.
// The list returned is normalised and deduplicated.
func parseFetchRequest(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, domain.ErrInvalidPayload
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() || len(doc.Map()) == 0 {
		return nil, domain.ErrInvalidPayload
	}

	field := doc.Get("servers")
	if isFalsy(field) {
		return nil, domain.ErrNoServers
	}

	var raws []string
	if field.IsArray() {
		for _, entry := range field.Array() {
			if entry.Type == gjson.String {
				raws = append(raws, entry.Str)
			}
		}
	}

	servers := util.DedupeServerURLs(raws)
	if len(servers) == 0 {
		return nil, domain.ErrNoValidServers
	}
	return servers, nil
}

func anyLoopback(servers []string) bool {
	for _, server := range servers {
		u, err := url.Parse(server)
		if err != nil {
			continue
		}
		host := u.Hostname()
		if host == "localhost" {
			return true
		}
		if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
			return true
		}
	}
	return false
}

func isFalsy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return v.Num == 0
	case gjson.String:
		return v.Str == ""
	case gjson.JSON:
		if v.IsArray() {
			return len(v.Array()) == 0
		}
		return len(v.Map()) == 0
	}
	return false
}
