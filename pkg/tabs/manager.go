// Package tabs is the tab lifecycle engine: it owns the tab records, decides
// which surface is visible and where, and keeps the layout inputs reported by
// the chrome UI.
//
// Every operation runs under one exclusive guard with a bounded wait. Exactly
// one surface, the active one, is ever placed inside the window; all others
// are parked at the types.OffscreenRect placement and hidden.
package tabs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/entrhq/clawbrowser/pkg/inspector"
	"github.com/entrhq/clawbrowser/pkg/layout"
	"github.com/entrhq/clawbrowser/pkg/logging"
	"github.com/entrhq/clawbrowser/pkg/navigation"
	"github.com/entrhq/clawbrowser/pkg/platform"
	"github.com/entrhq/clawbrowser/pkg/scripts"
	"github.com/entrhq/clawbrowser/pkg/surface"
	"github.com/entrhq/clawbrowser/pkg/types"
)

// DefaultLockTimeout bounds the wait for the state guard.
const DefaultLockTimeout = 2 * time.Second

// Options configure a Manager. Backend is required.
type Options struct {
	Backend surface.Backend
	Window  layout.Window
	Emitter types.Emitter
	Chrome  layout.Chrome
	Policy  *navigation.Policy

	// Platform supplies the user agent of new surfaces.
	Platform platform.Capabilities

	// Debug installs the instrumentation script and relays its records.
	Debug bool

	InspectorPollInterval time.Duration
	LockTimeout           time.Duration
	Logger                *logging.Logger

	// NewID generates tab ids. Defaults to random UUIDs.
	NewID func() string
}

// Manager owns the tab state.
type Manager struct {
	sem         *semaphore.Weighted
	lockTimeout time.Duration

	// Guarded by sem.
	window        layout.Window
	tabs          map[string]*types.TabInfo
	order         []string
	active        string
	bounds        *types.ContentBounds
	chromeYOffset float64

	chrome   layout.Chrome
	registry *surface.Registry
	watcher  *inspector.Watcher
	filter   *navigation.Filter
	platform platform.Capabilities
	debug    bool
	newID    func() string
	logger   *logging.Logger
}

// NewManager creates a manager and wires the registry hooks back into it.
func NewManager(opts Options) (*Manager, error) {
	if opts.Backend == nil {
		return nil, errors.New("surface backend is required")
	}
	if opts.Emitter == nil {
		opts.Emitter = types.NopEmitter{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Chrome == (layout.Chrome{}) {
		opts.Chrome = layout.DefaultChrome()
	}
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = DefaultLockTimeout
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	m := &Manager{
		sem:         semaphore.NewWeighted(1),
		lockTimeout: opts.LockTimeout,
		window:      opts.Window,
		tabs:        make(map[string]*types.TabInfo),
		chrome:      opts.Chrome,
		platform:    opts.Platform,
		debug:       opts.Debug,
		newID:       opts.NewID,
		logger:      opts.Logger,
	}

	m.registry = surface.NewRegistry(opts.Backend, opts.Emitter, opts.Logger)
	m.registry.SetDebug(opts.Debug)
	m.registry.SetURLObserver(m.observeURL)

	m.filter = navigation.NewFilter(opts.Policy, opts.Emitter, opts.Logger)
	m.filter.SetNavigator(m)
	m.registry.SetOpenRequestHandler(m.filter)

	m.watcher = inspector.NewWatcher(m.resolveInspector, opts.InspectorPollInterval, opts.Logger)
	return m, nil
}

func (m *Manager) lock(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.lockTimeout)
	defer cancel()
	if err := m.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %v", types.ErrLockUnavailable, err)
	}
	return nil
}

func (m *Manager) unlock() {
	m.sem.Release(1)
}

// SetWindow attaches the host window. Until then Create fails with
// types.ErrWindowMissing.
func (m *Manager) SetWindow(ctx context.Context, window layout.Window) error {
	if err := m.lock(ctx); err != nil {
		return err
	}
	defer m.unlock()
	m.window = window
	return nil
}

// Create opens a tab on url and makes it active.
func (m *Manager) Create(ctx context.Context, rawURL string) (string, error) {
	if err := m.lock(ctx); err != nil {
		return "", err
	}
	defer m.unlock()

	url, err := navigation.ParseURL(rawURL)
	if err != nil {
		return "", err
	}
	if m.window == nil {
		return "", fmt.Errorf("create tab: %w", types.ErrWindowMissing)
	}
	rect, err := m.resolve()
	if err != nil {
		return "", fmt.Errorf("create tab: %w", err)
	}

	id := m.newID()
	_, err = m.registry.Create(ctx, id, url, surface.Options{
		UserAgent:   m.platform.UserAgent,
		InitScripts: scripts.ForTab(id, m.debug),
		Bounds:      rect,
	})
	if err != nil {
		return "", err
	}

	for _, other := range m.order {
		m.registry.Park(other)
	}
	m.registry.Place(id, rect)
	m.registry.SetAutoResize(id, false)

	m.tabs[id] = &types.TabInfo{ID: id, URL: url, Title: types.DefaultTabTitle}
	m.order = append(m.order, id)
	m.active = id

	m.watcher.Start(id)
	m.logger.Debugf("created tab %s at %+v for %s", id, rect, url)
	return id, nil
}

// Close destroys a tab. If it was active, another remaining tab is shown.
func (m *Manager) Close(ctx context.Context, id string) error {
	if err := m.lock(ctx); err != nil {
		return err
	}
	defer m.unlock()

	if _, ok := m.tabs[id]; !ok {
		return fmt.Errorf("close tab: %w: %s", types.ErrNotFound, id)
	}

	m.watcher.Stop(id)
	m.registry.Destroy(id)
	delete(m.tabs, id)
	m.order = remove(m.order, id)

	if m.active != id {
		return nil
	}
	m.active = ""
	if len(m.order) == 0 {
		return nil
	}

	next := m.order[len(m.order)-1]
	m.active = next

	rect, err := m.resolve()
	if err != nil {
		// The tab is closed either way; keep the elected tab visible at its
		// previous placement.
		m.logger.Errorf("close tab %s: placing %s: %v", id, next, err)
		m.registry.Show(next)
		m.registry.Focus(next)
		return nil
	}
	m.registry.Place(next, rect)
	return nil
}

// Switch makes id the active tab.
func (m *Manager) Switch(ctx context.Context, id string) error {
	if err := m.lock(ctx); err != nil {
		return err
	}
	defer m.unlock()

	if _, ok := m.tabs[id]; !ok {
		return fmt.Errorf("switch tab: %w: %s", types.ErrNotFound, id)
	}
	rect, err := m.resolve()
	if err != nil {
		return fmt.Errorf("switch tab: %w", err)
	}

	for _, other := range m.order {
		if other != id {
			m.registry.Park(other)
		}
	}
	m.registry.Place(id, rect)
	m.active = id
	return nil
}

// Navigate starts loading url and stores it on the tab once the surface
// accepted it. Completion is reported later through the tab-loaded event.
func (m *Manager) Navigate(ctx context.Context, id, rawURL string) error {
	if err := m.lock(ctx); err != nil {
		return err
	}
	defer m.unlock()

	tab, ok := m.tabs[id]
	if !ok {
		return fmt.Errorf("navigate tab: %w: %s", types.ErrNotFound, id)
	}
	url, err := navigation.ParseURL(rawURL)
	if err != nil {
		return err
	}

	if err := m.registry.Navigate(id, url); err != nil {
		return err
	}
	tab.URL = url
	return nil
}

// RunJS injects code into a tab without waiting for a result.
func (m *Manager) RunJS(ctx context.Context, id, code string) error {
	if err := m.lock(ctx); err != nil {
		return err
	}
	defer m.unlock()

	if _, ok := m.tabs[id]; !ok {
		return fmt.Errorf("run js: %w: %s", types.ErrNotFound, id)
	}
	return m.registry.Eval(id, code)
}

// HideAll parks every surface. The active tab is kept.
func (m *Manager) HideAll(ctx context.Context) error {
	if err := m.lock(ctx); err != nil {
		return err
	}
	defer m.unlock()

	for _, id := range m.order {
		m.registry.Park(id)
	}
	return nil
}

// Reposition recomputes the active surface's placement from the live window
// size and the latched layout inputs.
func (m *Manager) Reposition(ctx context.Context) error {
	if err := m.lock(ctx); err != nil {
		return err
	}
	defer m.unlock()

	return m.reposition()
}

// ReportBounds records the content area reported by the chrome UI, latches
// the chrome offset from it and repositions the active surface.
func (m *Manager) ReportBounds(ctx context.Context, bounds types.ContentBounds) error {
	if err := validBounds(bounds); err != nil {
		return err
	}
	if err := m.lock(ctx); err != nil {
		return err
	}
	defer m.unlock()

	metrics, err := layout.Measure(m.window)
	if err != nil {
		return fmt.Errorf("report bounds: %w", err)
	}

	m.chromeYOffset = layout.ChromeOffsetWith(metrics, bounds)
	m.bounds = &bounds

	if m.active == "" {
		return nil
	}
	m.registry.SetBounds(m.active, layout.ResolveWith(m.state(), metrics, m.chrome))
	return nil
}

// List returns the open tabs in creation order.
func (m *Manager) List(ctx context.Context) ([]types.TabInfo, error) {
	if err := m.lock(ctx); err != nil {
		return nil, err
	}
	defer m.unlock()

	infos := make([]types.TabInfo, 0, len(m.order))
	for _, id := range m.order {
		infos = append(infos, *m.tabs[id])
	}
	return infos, nil
}

// Active returns the active tab id, if any.
func (m *Manager) Active(ctx context.Context) (string, bool, error) {
	if err := m.lock(ctx); err != nil {
		return "", false, err
	}
	defer m.unlock()

	return m.active, m.active != "", nil
}

// Layout returns the latched layout inputs.
func (m *Manager) Layout(ctx context.Context) (layout.State, error) {
	if err := m.lock(ctx); err != nil {
		return layout.State{}, err
	}
	defer m.unlock()

	state := m.state()
	if state.Bounds != nil {
		copied := *state.Bounds
		state.Bounds = &copied
	}
	return state, nil
}

// Placement returns the placement last applied to a tab's surface.
func (m *Manager) Placement(id string) (types.Rect, bool) {
	return m.registry.Placement(id)
}

// Visible reports whether a tab's surface was last shown.
func (m *Manager) Visible(id string) bool {
	return m.registry.Visible(id)
}

// Watching reports whether a tab has a live inspector watcher.
func (m *Manager) Watching(id string) bool {
	return m.watcher.Running(id)
}

// Policy returns the navigation policy applied to open requests.
func (m *Manager) Policy() *navigation.Policy {
	return m.filter.Policy()
}

// Shutdown stops every watcher and closes every surface.
func (m *Manager) Shutdown(ctx context.Context) error {
	if err := m.lock(ctx); err != nil {
		return err
	}
	defer m.unlock()

	m.watcher.StopAll()
	m.registry.CloseAll()
	m.tabs = make(map[string]*types.TabInfo)
	m.order = nil
	m.active = ""
	return nil
}

// observeURL records URLs reported by surface hooks.
func (m *Manager) observeURL(id, url string) {
	if err := m.lock(context.Background()); err != nil {
		m.logger.Errorf("dropping url update for %s: %v", id, err)
		return
	}
	defer m.unlock()

	if tab, ok := m.tabs[id]; ok {
		tab.URL = url
	}
}

func (m *Manager) resolveInspector(id string) (inspector.Capable, bool) {
	s, ok := m.registry.Lookup(id)
	if !ok {
		return nil, false
	}
	capable, ok := s.(inspector.Capable)
	return capable, ok
}

func (m *Manager) reposition() error {
	if m.active == "" {
		return nil
	}
	rect, err := m.resolve()
	if err != nil {
		return fmt.Errorf("reposition: %w", err)
	}
	m.registry.SetBounds(m.active, rect)
	return nil
}

func (m *Manager) resolve() (types.Rect, error) {
	return layout.Resolve(m.state(), m.window, m.chrome)
}

func (m *Manager) state() layout.State {
	return layout.State{Bounds: m.bounds, ChromeYOffset: m.chromeYOffset}
}

func validBounds(b types.ContentBounds) error {
	for _, v := range []float64{b.Left, b.Top, b.Width, b.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid content bounds %+v", b)
		}
	}
	return nil
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
