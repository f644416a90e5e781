package navigation

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"github.com/entrhq/clawbrowser/pkg/types"
)

// IsBlank reports whether raw names the empty page.
func IsBlank(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return true
	}
	lower := strings.ToLower(trimmed)
	if lower == types.BlankURL {
		return true
	}
	return strings.HasPrefix(lower, types.BlankURL+"#") || strings.HasPrefix(lower, types.BlankURL+"?")
}

// NormalizeURL maps blank-page variants to about:blank and converts an
// internationalized host to its ASCII form. Anything that does not parse is
// returned trimmed but otherwise untouched.
func NormalizeURL(raw string) string {
	if IsBlank(raw) {
		return types.BlankURL
	}
	trimmed := strings.TrimSpace(raw)

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return trimmed
	}

	host := u.Hostname()
	if strings.Contains(host, ":") {
		return trimmed
	}
	ascii, err := idna.ToASCII(host)
	if err != nil || ascii == host {
		return trimmed
	}

	if port := u.Port(); port != "" {
		u.Host = net.JoinHostPort(ascii, port)
	} else {
		u.Host = ascii
	}
	return u.String()
}

// ParseURL validates a URL supplied by a command and returns its normalized
// form. Empty input and about:blank are accepted as the blank page.
func ParseURL(raw string) (string, error) {
	if IsBlank(raw) {
		return types.BlankURL, nil
	}
	trimmed := strings.TrimSpace(raw)

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", types.ErrInvalidURL, trimmed, err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("%w: %q: missing scheme", types.ErrInvalidURL, trimmed)
	}
	if requiresHost(u.Scheme) && u.Host == "" {
		return "", fmt.Errorf("%w: %q: missing host", types.ErrInvalidURL, trimmed)
	}
	return NormalizeURL(trimmed), nil
}

// Host returns the lowercase host of a URL without its port.
func Host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func requiresHost(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "http", "https", "ws", "wss", "ftp":
		return true
	default:
		return false
	}
}
