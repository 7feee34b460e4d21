package media

import (
	"net/http"
	"strings"
)

// RequestBase resolves the scheme://host prefix for public upload URLs
// from the request's forwarded headers, falling back to the request host
// and then to defaultHost.
func RequestBase(r *http.Request, defaultHost string) string {
	host := strings.TrimSpace(r.Header.Get("X-Forwarded-Host"))
	if host == "" {
		host = r.Host
	}
	if host == "" {
		host = defaultHost
	}

	proto := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto"))
	if proto == "" {
		if r.TLS != nil {
			proto = "https"
		} else {
			proto = "http"
		}
	}
	proto = strings.TrimSuffix(proto, ":")

	return proto + "://" + host
}
