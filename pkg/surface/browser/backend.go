// Package browser renders surfaces as Playwright pages. Each surface gets
// its own browser context so that its user agent and init scripts are
// isolated from other tabs.
//
// Playwright delivers page events on its own dispatcher goroutine, so every
// hook is handed off to a fresh goroutine before it runs. Navigation and
// evaluation are started asynchronously for the same reason.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/clawbrowser/pkg/logging"
	"github.com/entrhq/clawbrowser/pkg/surface"
	"github.com/entrhq/clawbrowser/pkg/types"
)

var _ surface.Backend = (*Backend)(nil)

// Options configure the browser launched by the backend.
type Options struct {
	Headless bool
	Logger   *logging.Logger
}

// Backend owns one Playwright driver and one Chromium instance.
type Backend struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	browser     playwright.Browser
	headless    bool
	initialized bool
	logger      *logging.Logger
}

// NewBackend creates an uninitialized backend.
func NewBackend(opts Options) *Backend {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Backend{
		headless: opts.Headless,
		logger:   opts.Logger,
	}
}

// Initialize installs the driver if needed and launches Chromium.
func (b *Backend) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	// Keep driver output away from the terminal UI
	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.headless),
	})
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	b.pw = pw
	b.browser = browser
	b.initialized = true
	return nil
}

// CreateSurface opens a page in a new browser context.
func (b *Backend) CreateSurface(ctx context.Context, spec surface.Spec) (surface.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	browser, ready := b.browser, b.initialized
	b.mu.Unlock()
	if !ready {
		return nil, errors.New("playwright backend not initialized")
	}

	contextOpts := playwright.BrowserNewContextOptions{}
	if w, h, ok := viewport(spec.Bounds); ok {
		contextOpts.Viewport = &playwright.Size{Width: w, Height: h}
	}
	if spec.UserAgent != "" {
		contextOpts.UserAgent = playwright.String(spec.UserAgent)
	}

	bctx, err := browser.NewContext(contextOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	for _, script := range spec.InitScripts {
		if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(script)}); err != nil {
			_ = bctx.Close()
			return nil, fmt.Errorf("failed to add init script: %w", err)
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	s := &Surface{
		id:      spec.ID,
		context: bctx,
		page:    page,
		bounds:  spec.Bounds,
		visible: true,
		logger:  b.logger,
	}

	if err := s.install(spec.Hooks); err != nil {
		_ = s.Close()
		return nil, err
	}

	if spec.URL != "" && spec.URL != types.BlankURL {
		if err := s.Navigate(spec.URL); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Shutdown closes the browser and stops the driver.
func (b *Backend) Shutdown() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return nil
	}
	b.initialized = false

	var errs []error
	if err := b.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
	}
	if err := b.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

// viewport converts a placement into a Playwright viewport. Zero-size
// placements keep the current viewport.
func viewport(rect types.Rect) (width, height int, ok bool) {
	if rect.Width <= 0 || rect.Height <= 0 {
		return 0, 0, false
	}
	return rect.Width, rect.Height, true
}

// notification extracts the message posted through the notify binding.
func notification(args []interface{}) (map[string]interface{}, bool) {
	if len(args) == 0 {
		return nil, false
	}
	message, ok := args[0].(map[string]interface{})
	return message, ok && message != nil
}
