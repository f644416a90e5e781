// Package ipc exposes the shell's commands to the host UI by name. Arguments
// arrive as a JSON object with camelCase keys and results are plain values
// that marshal to JSON.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/entrhq/clawbrowser/pkg/logging"
	"github.com/entrhq/clawbrowser/pkg/types"
)

// Command names.
const (
	CmdCreateTab        = "create_tab"
	CmdCloseTab         = "close_tab"
	CmdSwitchTab        = "switch_tab"
	CmdNavigateTab      = "navigate_tab"
	CmdRunJSInTab       = "run_js_in_tab"
	CmdListTabs         = "list_tabs"
	CmdGetActiveTab     = "get_active_tab"
	CmdHideAllTabs      = "hide_all_tabs"
	CmdRepositionTabs   = "reposition_tabs"
	CmdSetContentBounds = "set_content_bounds"
	CmdStartSidecar     = "start_sidecar"
	CmdSidecarSend      = "sidecar_send"
	CmdSidecarReceive   = "sidecar_receive"
)

var (
	// ErrUnknownCommand is returned for names with no handler.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrBadArgument is returned when a required argument is missing or has
	// the wrong type.
	ErrBadArgument = errors.New("bad argument")
)

// TabService is the tab engine as seen by the router.
type TabService interface {
	Create(ctx context.Context, url string) (string, error)
	Close(ctx context.Context, id string) error
	Switch(ctx context.Context, id string) error
	Navigate(ctx context.Context, id, url string) error
	RunJS(ctx context.Context, id, code string) error
	List(ctx context.Context) ([]types.TabInfo, error)
	Active(ctx context.Context) (string, bool, error)
	HideAll(ctx context.Context) error
	Reposition(ctx context.Context) error
	ReportBounds(ctx context.Context, bounds types.ContentBounds) error
}

// Sidecar is the relay as seen by the router.
type Sidecar interface {
	Start()
	Send(method string, params json.RawMessage) (uint64, error)
	Receive(message string) error
}

// Handler runs one command.
type Handler func(ctx context.Context, args gjson.Result) (interface{}, error)

// Router dispatches commands by name.
type Router struct {
	handlers map[string]Handler
	logger   *logging.Logger
}

// NewRouter registers the tab commands, and the sidecar commands when relay
// is not nil.
func NewRouter(tabs TabService, relay Sidecar, logger *logging.Logger) *Router {
	if logger == nil {
		logger = logging.Nop()
	}
	r := &Router{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
	r.registerTabCommands(tabs)
	if relay != nil {
		r.registerSidecarCommands(relay)
	}
	return r
}

// Register adds or replaces a command.
func (r *Router) Register(name string, h Handler) {
	r.handlers[name] = h
}

// Commands returns the registered names, sorted.
func (r *Router) Commands() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs a command. Empty args are treated as {}. Failures are logged
// to the error log and returned.
func (r *Router) Invoke(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	raw := strings.TrimSpace(string(args))
	if raw == "" {
		raw = "{}"
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("%s: %w: arguments", name, types.ErrInvalidJSON)
	}

	result, err := h(ctx, gjson.Parse(raw))
	if err != nil {
		r.logger.Errorf("command %s failed: %v", name, err)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return result, nil
}

// InvokeJSON runs a command and marshals its result.
func (r *Router) InvokeJSON(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	result, err := r.Invoke(ctx, name, args)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode result: %w", name, err)
	}
	return encoded, nil
}

func (r *Router) registerTabCommands(tabs TabService) {
	r.Register(CmdCreateTab, func(ctx context.Context, args gjson.Result) (interface{}, error) {
		url, err := optionalString(args, "url")
		if err != nil {
			return nil, err
		}
		return tabs.Create(ctx, url)
	})

	r.Register(CmdCloseTab, func(ctx context.Context, args gjson.Result) (interface{}, error) {
		id, err := requiredString(args, "tabId")
		if err != nil {
			return nil, err
		}
		return nil, tabs.Close(ctx, id)
	})

	r.Register(CmdSwitchTab, func(ctx context.Context, args gjson.Result) (interface{}, error) {
		id, err := requiredString(args, "tabId")
		if err != nil {
			return nil, err
		}
		return nil, tabs.Switch(ctx, id)
	})

	r.Register(CmdNavigateTab, func(ctx context.Context, args gjson.Result) (interface{}, error) {
		id, err := requiredString(args, "tabId")
		if err != nil {
			return nil, err
		}
		url, err := requiredString(args, "url")
		if err != nil {
			return nil, err
		}
		return nil, tabs.Navigate(ctx, id, url)
	})

	r.Register(CmdRunJSInTab, func(ctx context.Context, args gjson.Result) (interface{}, error) {
		id, err := requiredString(args, "tabId")
		if err != nil {
			return nil, err
		}
		code, err := requiredString(args, "code")
		if err != nil {
			return nil, err
		}
		return nil, tabs.RunJS(ctx, id, code)
	})

	r.Register(CmdListTabs, func(ctx context.Context, _ gjson.Result) (interface{}, error) {
		return tabs.List(ctx)
	})

	r.Register(CmdGetActiveTab, func(ctx context.Context, _ gjson.Result) (interface{}, error) {
		id, ok, err := tabs.Active(ctx)
		if err != nil || !ok {
			return nil, err
		}
		return id, nil
	})

	r.Register(CmdHideAllTabs, func(ctx context.Context, _ gjson.Result) (interface{}, error) {
		return nil, tabs.HideAll(ctx)
	})

	r.Register(CmdRepositionTabs, func(ctx context.Context, _ gjson.Result) (interface{}, error) {
		return nil, tabs.Reposition(ctx)
	})

	r.Register(CmdSetContentBounds, func(ctx context.Context, args gjson.Result) (interface{}, error) {
		var bounds types.ContentBounds
		fields := []struct {
			key string
			dst *float64
		}{
			{"left", &bounds.Left},
			{"top", &bounds.Top},
			{"width", &bounds.Width},
			{"height", &bounds.Height},
		}
		for _, f := range fields {
			v, err := requiredNumber(args, f.key)
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}
		return nil, tabs.ReportBounds(ctx, bounds)
	})
}

func (r *Router) registerSidecarCommands(relay Sidecar) {
	r.Register(CmdStartSidecar, func(_ context.Context, _ gjson.Result) (interface{}, error) {
		relay.Start()
		return nil, nil
	})

	r.Register(CmdSidecarSend, func(_ context.Context, args gjson.Result) (interface{}, error) {
		method, err := requiredString(args, "method")
		if err != nil {
			return nil, err
		}
		var params json.RawMessage
		if p := args.Get("params"); p.Exists() {
			params = json.RawMessage(p.Raw)
		}
		return relay.Send(method, params)
	})

	r.Register(CmdSidecarReceive, func(_ context.Context, args gjson.Result) (interface{}, error) {
		message, err := requiredString(args, "message")
		if err != nil {
			return nil, err
		}
		return nil, relay.Receive(message)
	})
}

func requiredString(args gjson.Result, key string) (string, error) {
	v := args.Get(key)
	if !v.Exists() {
		return "", fmt.Errorf("%w: missing %q", ErrBadArgument, key)
	}
	if v.Type != gjson.String {
		return "", fmt.Errorf("%w: %q must be a string", ErrBadArgument, key)
	}
	return v.String(), nil
}

func optionalString(args gjson.Result, key string) (string, error) {
	v := args.Get(key)
	if !v.Exists() || v.Type == gjson.Null {
		return "", nil
	}
	if v.Type != gjson.String {
		return "", fmt.Errorf("%w: %q must be a string", ErrBadArgument, key)
	}
	return v.String(), nil
}

func requiredNumber(args gjson.Result, key string) (float64, error) {
	v := args.Get(key)
	if !v.Exists() {
		return 0, fmt.Errorf("%w: missing %q", ErrBadArgument, key)
	}
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %q must be a number", ErrBadArgument, key)
	}
	return v.Float(), nil
}
