package scripts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadsHaveSingleSubstitutionPoint(t *testing.T) {
	for name, source := range map[string]string{
		"instrumentation": instrumentationSource,
		"link intercept":  linkInterceptSource,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 1, strings.Count(source, TabIDToken))
			assert.Contains(t, source, NotifyBinding)
		})
	}
}

func TestLinkIntercept_Substitution(t *testing.T) {
	payload := LinkIntercept("tab-42")

	assert.NotContains(t, payload, TabIDToken)
	assert.Contains(t, payload, `var tabId = "tab-42";`)
	assert.Contains(t, payload, "'shift-click'")
	assert.Contains(t, payload, "document.baseURI")
	assert.Contains(t, payload, "event.button !== 0")
}

func TestRender_EscapesTabID(t *testing.T) {
	payload := Instrumentation(`evil";alert(1);"`)
	assert.Contains(t, payload, `var tabId = "evil\";alert(1);\"";`)
}

func TestForTab(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		count int
	}{
		{name: "release", debug: false, count: 1},
		{name: "debug", debug: true, count: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payloads := ForTab("abc", tt.debug)
			require.Len(t, payloads, tt.count)
			assert.Contains(t, payloads[len(payloads)-1], "link-intercept v"+Version)
			if tt.debug {
				assert.Contains(t, payloads[0], "instrumentation v"+Version)
			}
		})
	}
}
