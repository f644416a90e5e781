package navigation

import (
	"context"

	"github.com/entrhq/clawbrowser/pkg/logging"
	"github.com/entrhq/clawbrowser/pkg/types"
)

// Navigator loads a URL in an existing tab.
type Navigator interface {
	Navigate(ctx context.Context, tabID, url string) error
}

// Filter applies a Policy and carries out its decision.
type Filter struct {
	policy    *Policy
	emitter   types.Emitter
	navigator Navigator
	logger    *logging.Logger
}

// NewFilter creates a filter. A nil policy forwards every valid request.
func NewFilter(policy *Policy, emitter types.Emitter, logger *logging.Logger) *Filter {
	if policy == nil {
		policy = AllowAll()
	}
	if emitter == nil {
		emitter = types.NopEmitter{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Filter{
		policy:  policy,
		emitter: emitter,
		logger:  logger,
	}
}

// SetNavigator sets the target of in-place decisions. Without one, in-place
// decisions are forwarded instead.
func (f *Filter) SetNavigator(navigator Navigator) {
	f.navigator = navigator
}

// Policy returns the active policy.
func (f *Filter) Policy() *Policy {
	return f.policy
}

// HandleOpenRequest decides the request and acts on it.
func (f *Filter) HandleOpenRequest(ctx context.Context, req OpenRequest) Decision {
	decision, target := f.policy.decide(req)

	if decision == InPlace && f.navigator == nil {
		decision = Forward
	}

	switch decision {
	case Forward:
		f.emitter.Emit(types.NewTabOpenRequestEvent(req.TabID, target, req.Reason))
	case InPlace:
		if err := f.navigator.Navigate(ctx, req.TabID, target); err != nil {
			f.logger.Errorf("in-place navigation of tab %s to %s failed: %v", req.TabID, target, err)
		}
	case Deny:
		f.logger.Infof("denied %s open request from tab %s for %q", req.Reason, req.TabID, req.URL)
	}
	return decision
}
