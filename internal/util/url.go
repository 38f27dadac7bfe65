package util

import (
	"net/url"
	"path"
	"strings"
)

const (
	SchemeHTTP  = "http://"
	SchemeHTTPS = "https://"
)

// NormaliseServerURL turns whatever the user typed into a base URL we can hang
// API paths off. Surrounding whitespace and any trailing slashes are removed and
// a bare host:port gets http:// in front. Empty (or blank) input stays empty.
//
// Examples:
//   - NormaliseServerURL("localhost:11434")       -> "http://localhost:11434"
//   - NormaliseServerURL("https://example.com/")  -> "https://example.com"
//   - NormaliseServerURL("  http://x:1//  ")      -> "http://x:1"
func NormaliseServerURL(raw string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, SchemeHTTP) && !strings.HasPrefix(trimmed, SchemeHTTPS) {
		trimmed = SchemeHTTP + trimmed
	}
	return trimmed
}

// DedupeServerURLs normalises every address, drops the empty ones and keeps
// only the first occurrence of each (case-sensitive) result, in input order.
func DedupeServerURLs(raws []string) []string {
	seen := make(map[string]struct{}, len(raws))
	servers := make([]string, 0, len(raws))

	for _, raw := range raws {
		normalised := NormaliseServerURL(raw)
		if normalised == "" {
			continue
		}
		if _, dupe := seen[normalised]; dupe {
			continue
		}
		seen[normalised] = struct{}{}
		servers = append(servers, normalised)
	}

	return servers
}

// ResolveURLPath resolves a path or absolute URL against a base URL.
// If pathOrURL is already an absolute URL (has a scheme like http://), it is returned as-is.
// Otherwise, pathOrURL is joined with the base URL's path, preserving any path prefix
// in the base URL (url.ResolveReference would replace it for paths starting with "/").
//
// Examples:
//   - ResolveURLPath("http://localhost:11434", "/api/tags") -> "http://localhost:11434/api/tags"
//   - ResolveURLPath("http://gpu-box/ollama", "/api/show") -> "http://gpu-box/ollama/api/show"
func ResolveURLPath(baseURL, pathOrURL string) string {
	if baseURL == "" {
		return pathOrURL
	}
	if pathOrURL == "" {
		return baseURL
	}

	if parsed, err := url.Parse(pathOrURL); err == nil && parsed.IsAbs() {
		return pathOrURL
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		// not much we can do with a mangled base, let the request fail later
		return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(pathOrURL, "/")
	}

	base.Path = path.Join(base.Path, pathOrURL)
	return base.String()
}
