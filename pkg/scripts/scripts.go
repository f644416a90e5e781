// Package scripts holds the JavaScript payloads injected into every content
// surface before page scripts run.
//
// The payloads are fixed, versioned strings with exactly one substitution
// point: the tab identifier, inserted as a JSON string literal. Both report
// back through a single page function, NotifyBinding, which the surface
// backend exposes. If that function is missing the scripts degrade silently:
// instrumentation drops its records and link clicks navigate in place.
package scripts

import (
	_ "embed"
	"encoding/json"
	"strings"
)

// Version identifies the payload contract. Bump it whenever a payload's
// message shape changes.
const Version = "1"

// TabIDToken is replaced with the JSON-encoded tab identifier.
const TabIDToken = "__CLAW_TAB_ID__"

// NotifyBinding is the page function the payloads call.
const NotifyBinding = "__clawNotify"

// Notification channels used in the "channel" field of payload messages.
const (
	ChannelDebug       = "debug"
	ChannelOpenRequest = "open-request"
)

//go:embed instrumentation.js
var instrumentationSource string

//go:embed link_intercept.js
var linkInterceptSource string

// Instrumentation returns the console/error/rejection/render-sample capture
// payload for a tab.
func Instrumentation(tabID string) string {
	return render(instrumentationSource, tabID)
}

// LinkIntercept returns the modifier-click interception payload for a tab.
func LinkIntercept(tabID string) string {
	return render(linkInterceptSource, tabID)
}

// ForTab returns the init scripts for a new surface. The link interceptor is
// always installed; instrumentation only when debug is enabled.
func ForTab(tabID string, debug bool) []string {
	payloads := []string{LinkIntercept(tabID)}
	if debug {
		payloads = append([]string{Instrumentation(tabID)}, payloads...)
	}
	return payloads
}

func render(source, tabID string) string {
	literal, err := json.Marshal(tabID)
	if err != nil {
		literal = []byte(`""`)
	}
	return strings.Replace(source, TabIDToken, string(literal), 1)
}
