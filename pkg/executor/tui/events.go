package tui

import (
	"encoding/json"
	"fmt"

	"github.com/entrhq/clawbrowser/pkg/types"
)

// formatEvent renders one shell event as a log line.
func formatEvent(event *types.ShellEvent) string {
	if event == nil {
		return ""
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		payload = []byte(fmt.Sprintf("%v", event.Payload))
	}

	label := fmt.Sprintf("[%s]", event.Type)
	if event.Type == types.EventTypeDebug {
		return debugStyle.Render(label + " " + string(payload))
	}
	return eventStyle.Render(label) + " " + highlightJSON(string(payload))
}

// tabChanged reports whether event may have changed the tab list.
func tabChanged(event *types.ShellEvent) bool {
	switch event.Type {
	case types.EventTypeTabLoaded, types.EventTypeTabNavigated:
		return true
	default:
		return false
	}
}

// openRequestURL returns the URL of a tab-open-request event.
func openRequestURL(event *types.ShellEvent) (string, bool) {
	if event.Type != types.EventTypeTabOpenRequest {
		return "", false
	}
	payload, ok := event.Payload.(types.OpenRequestPayload)
	if !ok || payload.URL == "" {
		return "", false
	}
	return payload.URL, true
}
