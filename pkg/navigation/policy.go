// Package navigation decides what happens to requests from a page to open a
// URL somewhere other than the current surface.
//
// Requests arrive from two places: the native new-window hook of a surface
// (reason new-window) and the injected link interceptor (reason shift-click).
// The native window is always denied; the Policy then chooses whether the UI
// is asked to open a tab, the URL is loaded in the originating tab, or the
// request is dropped.
package navigation

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/entrhq/clawbrowser/pkg/types"
)

// Decision is the outcome of an open request.
type Decision int

const (
	// Forward asks the host UI to open a new tab.
	Forward Decision = iota
	// Deny drops the request.
	Deny
	// InPlace loads the URL in the originating tab.
	InPlace
)

func (d Decision) String() string {
	switch d {
	case Forward:
		return "forward"
	case Deny:
		return "deny"
	case InPlace:
		return "in-place"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// OpenRequest is a page's request to open a URL.
type OpenRequest struct {
	TabID  string
	URL    string
	Reason types.OpenReason
}

// Policy holds the compiled blocklist and the new-window preference.
type Policy struct {
	patterns         []string
	blocked          []glob.Glob
	newWindowInPlace bool
}

// NewPolicy compiles the blocked URL patterns. Each pattern is matched
// against both the full URL and its host.
func NewPolicy(blocked []string, newWindowInPlace bool) (*Policy, error) {
	p := &Policy{newWindowInPlace: newWindowInPlace}
	for _, pattern := range blocked {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid blocked pattern '%s': %w", pattern, err)
		}
		p.patterns = append(p.patterns, pattern)
		p.blocked = append(p.blocked, g)
	}
	return p, nil
}

// AllowAll is a policy with no blocklist that forwards every valid request.
func AllowAll() *Policy {
	return &Policy{}
}

// Patterns returns the compiled pattern sources.
func (p *Policy) Patterns() []string {
	return append([]string(nil), p.patterns...)
}

// Decide applies the policy to a request.
func (p *Policy) Decide(req OpenRequest) Decision {
	decision, _ := p.decide(req)
	return decision
}

// decide also returns the normalized URL the decision applies to.
func (p *Policy) decide(req OpenRequest) (Decision, string) {
	if strings.TrimSpace(req.URL) == "" {
		return Deny, ""
	}
	target, err := ParseURL(req.URL)
	if err != nil {
		return Deny, ""
	}
	if p.IsBlocked(target) {
		return Deny, target
	}
	if req.Reason == types.OpenReasonNewWindow && p.newWindowInPlace {
		return InPlace, target
	}
	return Forward, target
}

// IsBlocked reports whether a URL matches any blocked pattern.
func (p *Policy) IsBlocked(target string) bool {
	if len(p.blocked) == 0 {
		return false
	}
	host := Host(target)
	for _, g := range p.blocked {
		if g.Match(target) || (host != "" && g.Match(host)) {
			return true
		}
	}
	return false
}
