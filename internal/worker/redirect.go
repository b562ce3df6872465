package worker

import "httpreq/internal/urlparse"

// resolveLocation rewrites a Location header value against the current
// request's scheme/host/port when it starts with '/'. Anything else is
// treated as already absolute — including relative non-root locations
// such as "./foo", an intentionally-preserved, RFC-3986-incorrect
// behavior.
func resolveLocation(current urlparse.URL, location string) string {
	if len(location) == 0 || location[0] != '/' {
		return location
	}

	scheme := "http"
	if current.HTTPS {
		scheme = "https"
	}

	if urlparse.IsDefaultPort(current.HTTPS, current.Port) {
		return scheme + "://" + current.Host + location
	}
	return scheme + "://" + current.Host + ":" + current.Port + location
}

func isRedirectStatus(status int) bool {
	switch status {
	case 301, 302, 303, 307, 308:
		return true
	default:
		return false
	}
}
