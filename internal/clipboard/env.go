package clipboard

import (
	"net"
	"net/http"
	"regexp"
	"strings"
)

var (
	mobileUA = regexp.MustCompile(`(?i)iPhone|iPad|iPod|Android`)
	iosUA    = regexp.MustCompile(`iPhone|iPad|iPod`)
)

// Env describes the client a composite is delivered to.
type Env struct {
	// SecureContext is true for HTTPS or loopback origins; the native
	// clipboard is only reachable there.
	SecureContext bool
	Mobile        bool
	IOS           bool
}

// EnvFromUserAgent classifies a user agent string.
func EnvFromUserAgent(ua string, secure bool) Env {
	return Env{
		SecureContext: secure,
		Mobile:        mobileUA.MatchString(ua),
		IOS:           iosUA.MatchString(ua),
	}
}

// EnvFromRequest classifies the client behind r.
func EnvFromRequest(r *http.Request) Env {
	return EnvFromUserAgent(r.UserAgent(), isSecure(r))
}

func isSecure(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		return true
	}
	return isLoopback(r.Host)
}

func isLoopback(hostport string) bool {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
