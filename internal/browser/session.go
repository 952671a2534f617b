// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/synthmouse/internal/browser/devtools"
	"github.com/xkilldash9x/synthmouse/internal/config"
)

// Session is one browser tab and the devtools Page that drives it.
type Session struct {
	id     string
	ctx    context.Context // the chromedp tab context
	cancel context.CancelFunc
	logger *zap.Logger

	navigationTimeout time.Duration
	page              *devtools.Page

	closeOnce sync.Once
	onClose   func()
}

func newSession(tab context.Context, cancel context.CancelFunc, cfg config.Interface, logger *zap.Logger) *Session {
	id := uuid.NewString()
	logger = logger.With(zap.String("session_id", id))
	bc, pc := cfg.Browser(), cfg.Pointer()

	exec := devtools.NewTabExecutor(tab, logger, bc.CallTimeout)
	return &Session{
		id:                id,
		ctx:               tab,
		cancel:            cancel,
		logger:            logger,
		navigationTimeout: bc.NavigationTimeout,
		page:              devtools.New(exec, logger, devtools.WithPacing(pc.EventsPerSecond, pc.Burst)),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Page returns the pointer backend for this tab.
func (s *Session) Page() *devtools.Page { return s.page }

// Run executes chromedp actions in the tab, bounded by ctx.
func (s *Session) Run(ctx context.Context, actions ...chromedp.Action) error {
	combined, cancel := devtools.CombineContext(s.ctx, ctx)
	defer cancel()
	return chromedp.Run(combined, actions...)
}

// Navigate loads url and waits for the body to be ready. Element handles
// from the previous document are forgotten.
func (s *Session) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.navigationTimeout)
	defer cancel()

	s.logger.Debug("Navigating.", zap.String("url", url))
	if err := s.Run(navCtx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		if navCtx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("navigation to %s timed out after %v: %w", url, s.navigationTimeout, navCtx.Err())
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	s.page.Forget()
	s.logger.Info("Navigation complete.", zap.String("url", url))
	return nil
}

// Evaluate runs a JavaScript expression in the tab and decodes its result into out.
func (s *Session) Evaluate(ctx context.Context, expression string, out interface{}) error {
	return s.Run(ctx, chromedp.Evaluate(expression, out))
}

// Close closes the tab. It is safe to call more than once.
func (s *Session) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		s.logger.Debug("Closing session.")
		done := make(chan error, 1)
		go func() { done <- chromedp.Cancel(s.ctx) }()

		select {
		case err = <-done:
		case <-ctx.Done():
			err = fmt.Errorf("timed out closing session %s: %w", s.id, ctx.Err())
		}
		s.cancel()
		if s.onClose != nil {
			s.onClose()
		}
	})
	return err
}
