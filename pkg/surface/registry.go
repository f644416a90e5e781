package surface

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/entrhq/clawbrowser/pkg/logging"
	"github.com/entrhq/clawbrowser/pkg/navigation"
	"github.com/entrhq/clawbrowser/pkg/scripts"
	"github.com/entrhq/clawbrowser/pkg/types"
)

// OpenRequestHandler receives requests from pages to open a URL elsewhere.
type OpenRequestHandler interface {
	HandleOpenRequest(ctx context.Context, req navigation.OpenRequest) navigation.Decision
}

// URLObserver is told about every URL a surface loads or navigates to.
type URLObserver func(tabID, url string)

// Options configure a new surface.
type Options struct {
	UserAgent   string
	InitScripts []string
	Bounds      types.Rect
}

type entry struct {
	surface   Surface
	placement types.Rect
	visible   bool
}

// Registry maps tab ids to live surfaces.
type Registry struct {
	mu       sync.RWMutex
	backend  Backend
	entries  map[string]*entry
	emitter  types.Emitter
	opener   OpenRequestHandler
	observer URLObserver
	debug    bool
	logger   *logging.Logger
}

// NewRegistry creates a registry over a backend.
func NewRegistry(backend Backend, emitter types.Emitter, logger *logging.Logger) *Registry {
	if emitter == nil {
		emitter = types.NopEmitter{}
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Registry{
		backend: backend,
		entries: make(map[string]*entry),
		emitter: emitter,
		logger:  logger,
	}
}

// SetOpenRequestHandler routes open requests through h. Without a handler
// every request is forwarded to the UI as is.
func (r *Registry) SetOpenRequestHandler(h OpenRequestHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opener = h
}

// SetURLObserver registers fn for load and navigation URLs.
func (r *Registry) SetURLObserver(fn URLObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = fn
}

// SetDebug enables relaying of instrumentation records.
func (r *Registry) SetDebug(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debug = enabled
}

// Create builds a surface for id and records it at opts.Bounds, visible.
func (r *Registry) Create(ctx context.Context, id, url string, opts Options) (Surface, error) {
	r.mu.RLock()
	_, exists := r.entries[id]
	r.mu.RUnlock()
	if exists {
		return nil, fmt.Errorf("%w: surface %q already exists", types.ErrSurfaceCreateFailed, id)
	}

	spec := Spec{
		ID:          id,
		URL:         url,
		UserAgent:   opts.UserAgent,
		InitScripts: append([]string(nil), opts.InitScripts...),
		Bounds:      opts.Bounds,
		Hooks:       r.hooksFor(id),
	}

	s, err := r.backend.CreateSurface(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrSurfaceCreateFailed, id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[id]; exists {
		_ = s.Close()
		return nil, fmt.Errorf("%w: surface %q already exists", types.ErrSurfaceCreateFailed, id)
	}
	r.entries[id] = &entry{surface: s, placement: opts.Bounds, visible: true}
	return s, nil
}

// Destroy closes and forgets the surface. Unknown ids are ignored.
func (r *Registry) Destroy(id string) {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()

	if !ok {
		return
	}
	if err := e.surface.Close(); err != nil {
		r.logger.Debugf("close surface %s: %v", id, err)
	}
}

// CloseAll destroys every surface.
func (r *Registry) CloseAll() {
	for _, id := range r.IDs() {
		r.Destroy(id)
	}
}

// SetBounds moves a surface. Unknown ids and backend failures are ignored.
func (r *Registry) SetBounds(id string, rect types.Rect) {
	r.apply(id, "set bounds", func(e *entry) error {
		e.placement = rect
		return e.surface.SetBounds(rect)
	})
}

// Show makes a surface visible.
func (r *Registry) Show(id string) {
	r.apply(id, "show", func(e *entry) error {
		e.visible = true
		return e.surface.Show()
	})
}

// Hide hides a surface.
func (r *Registry) Hide(id string) {
	r.apply(id, "hide", func(e *entry) error {
		e.visible = false
		return e.surface.Hide()
	})
}

// Focus gives a surface keyboard focus.
func (r *Registry) Focus(id string) {
	r.apply(id, "focus", func(e *entry) error {
		return e.surface.Focus()
	})
}

// SetAutoResize toggles native auto-resize.
func (r *Registry) SetAutoResize(id string, enabled bool) {
	r.apply(id, "set auto-resize", func(e *entry) error {
		return e.surface.SetAutoResize(enabled)
	})
}

// Park moves a surface off-screen with zero size and hides it.
func (r *Registry) Park(id string) {
	r.SetBounds(id, types.OffscreenRect())
	r.Hide(id)
}

// Place moves a surface to rect, shows and focuses it.
func (r *Registry) Place(id string, rect types.Rect) {
	r.SetBounds(id, rect)
	r.Show(id)
	r.Focus(id)
}

// Eval injects code into a surface.
func (r *Registry) Eval(id, code string) error {
	s, ok := r.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrNotFound, id)
	}
	if err := s.Eval(code); err != nil {
		return fmt.Errorf("%w: eval in %s: %v", types.ErrSurfaceOpFailed, id, err)
	}
	return nil
}

// Navigate starts loading url in a surface.
func (r *Registry) Navigate(id, url string) error {
	s, ok := r.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", types.ErrNotFound, id)
	}
	if err := s.Navigate(url); err != nil {
		return fmt.Errorf("%w: navigate %s: %v", types.ErrSurfaceOpFailed, id, err)
	}
	return nil
}

// Lookup returns the live surface for id.
func (r *Registry) Lookup(id string) (Surface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.surface, true
}

// Placement returns the last placement requested for id.
func (r *Registry) Placement(id string) (types.Rect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return types.Rect{}, false
	}
	return e.placement, true
}

// Visible reports whether id was last shown rather than hidden.
func (r *Registry) Visible(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return ok && e.visible
}

// IDs returns the ids of all live surfaces, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live surfaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// apply runs op on a known entry under the registry lock. Errors are logged
// and swallowed.
func (r *Registry) apply(id, name string, op func(e *entry) error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	var err error
	if ok {
		err = op(e)
	}
	r.mu.Unlock()

	if err != nil {
		r.logger.Debugf("%s on surface %s: %v", name, id, err)
	}
}

func (r *Registry) hooksFor(id string) Hooks {
	return Hooks{
		OnLoad: func(url string) {
			url = r.observe(id, url)
			r.emitter.Emit(types.NewTabLoadedEvent(id, url))
		},
		OnNavigate: func(url string) bool {
			url = r.observe(id, url)
			r.emitter.Emit(types.NewTabNavigatedEvent(id, url))
			return true
		},
		OnNewWindow: func(url string) {
			r.openRequest(id, url, types.OpenReasonNewWindow)
		},
		OnNotify: func(message map[string]interface{}) {
			r.notify(id, message)
		},
	}
}

func (r *Registry) observe(id, url string) string {
	url = navigation.NormalizeURL(url)

	r.mu.RLock()
	observer := r.observer
	r.mu.RUnlock()

	if observer != nil {
		observer(id, url)
	}
	return url
}

func (r *Registry) openRequest(id, url string, reason types.OpenReason) {
	r.mu.RLock()
	opener := r.opener
	r.mu.RUnlock()

	if opener == nil {
		r.emitter.Emit(types.NewTabOpenRequestEvent(id, navigation.NormalizeURL(url), reason))
		return
	}
	opener.HandleOpenRequest(context.Background(), navigation.OpenRequest{
		TabID:  id,
		URL:    url,
		Reason: reason,
	})
}

// notify dispatches a message from an injected script. The tab id is taken
// from the surface, never from the message.
func (r *Registry) notify(id string, message map[string]interface{}) {
	channel, _ := message["channel"].(string)

	switch channel {
	case scripts.ChannelOpenRequest:
		url, _ := message["url"].(string)
		reason := types.OpenReasonShiftClick
		if raw, ok := message["reason"].(string); ok && raw == string(types.OpenReasonNewWindow) {
			reason = types.OpenReasonNewWindow
		}
		r.openRequest(id, url, reason)

	case scripts.ChannelDebug:
		r.mu.RLock()
		debug := r.debug
		r.mu.RUnlock()
		if !debug {
			return
		}
		kind, _ := message["kind"].(string)
		data, _ := message["data"].(map[string]interface{})
		r.emitter.Emit(types.NewDebugEvent(types.DebugRecord{TabID: id, Kind: kind, Data: data}))

	default:
		r.logger.Debugf("ignoring page notification on channel %q from %s", channel, id)
	}
}
