package browser

import (
	"errors"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/clawbrowser/pkg/logging"
	"github.com/entrhq/clawbrowser/pkg/scripts"
	"github.com/entrhq/clawbrowser/pkg/surface"
	"github.com/entrhq/clawbrowser/pkg/types"
)

// errPageClosed is returned by operations on a closed page.
var errPageClosed = errors.New("page is closed")

// Surface is a Playwright page. Pages cannot be hidden or moved inside a
// real window, so placement maps to the viewport size and visibility to
// bringing the page to the front.
type Surface struct {
	id      string
	context playwright.BrowserContext
	page    playwright.Page
	logger  *logging.Logger

	mu         sync.Mutex
	bounds     types.Rect
	visible    bool
	autoResize bool
	closed     bool
}

func (s *Surface) install(hooks surface.Hooks) error {
	if err := s.page.ExposeFunction(scripts.NotifyBinding, func(args ...interface{}) interface{} {
		if message, ok := notification(args); ok && hooks.OnNotify != nil {
			go hooks.OnNotify(message)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to expose %s: %w", scripts.NotifyBinding, err)
	}

	s.page.OnLoad(func(p playwright.Page) {
		if hooks.OnLoad != nil {
			go hooks.OnLoad(p.URL())
		}
	})

	s.page.OnFrameNavigated(func(frame playwright.Frame) {
		if frame.ParentFrame() != nil || hooks.OnNavigate == nil {
			return
		}
		// Playwright reports committed navigations only; the hook cannot veto.
		go hooks.OnNavigate(frame.URL())
	})

	s.page.OnPopup(func(popup playwright.Page) {
		go func() {
			_ = popup.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
				State: playwright.LoadStateDomcontentloaded,
			})
			url := popup.URL()
			_ = popup.Close()
			if hooks.OnNewWindow != nil {
				hooks.OnNewWindow(url)
			}
		}()
	})
	return nil
}

func (s *Surface) live() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.page.IsClosed() {
		return errPageClosed
	}
	return nil
}

// SetBounds resizes the viewport to the placement. Parked placements only
// update the recorded bounds.
func (s *Surface) SetBounds(rect types.Rect) error {
	if err := s.live(); err != nil {
		return err
	}
	s.mu.Lock()
	s.bounds = rect
	s.mu.Unlock()

	w, h, ok := viewport(rect)
	if !ok {
		return nil
	}
	return s.page.SetViewportSize(w, h)
}

func (s *Surface) Show() error {
	if err := s.live(); err != nil {
		return err
	}
	s.mu.Lock()
	s.visible = true
	s.mu.Unlock()
	return s.page.BringToFront()
}

func (s *Surface) Hide() error {
	if err := s.live(); err != nil {
		return err
	}
	s.mu.Lock()
	s.visible = false
	s.mu.Unlock()
	return nil
}

func (s *Surface) Focus() error {
	if err := s.live(); err != nil {
		return err
	}
	return s.page.BringToFront()
}

// Eval starts evaluating code and returns once it is dispatched.
func (s *Surface) Eval(code string) error {
	if err := s.live(); err != nil {
		return err
	}
	go func() {
		if _, err := s.page.Evaluate(code); err != nil {
			s.logger.Debugf("eval in %s: %v", s.id, err)
		}
	}()
	return nil
}

// Navigate starts loading url and returns once it is dispatched.
func (s *Surface) Navigate(url string) error {
	if err := s.live(); err != nil {
		return err
	}
	go func() {
		if _, err := s.page.Goto(url); err != nil {
			s.logger.Debugf("navigation of %s to %s: %v", s.id, url, err)
		}
	}()
	return nil
}

// SetAutoResize is recorded only; Playwright viewports never follow a window.
func (s *Surface) SetAutoResize(enabled bool) error {
	if err := s.live(); err != nil {
		return err
	}
	s.mu.Lock()
	s.autoResize = enabled
	s.mu.Unlock()
	return nil
}

func (s *Surface) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	var errs []error
	if err := s.page.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.context.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Page returns the underlying page.
func (s *Surface) Page() playwright.Page {
	return s.page
}

// Bounds returns the last placement.
func (s *Surface) Bounds() types.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}
