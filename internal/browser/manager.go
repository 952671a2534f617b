// internal/browser/manager.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/synthmouse/internal/config"
)

const shutdownGracePeriod = 15 * time.Second

// Manager owns the Chrome process and hands out tabs as Sessions.
type Manager struct {
	cfg    config.Interface
	logger *zap.Logger

	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	sessions map[string]*Session
	mu       sync.RWMutex
	wg       sync.WaitGroup // tracks open sessions so Shutdown can drain them

	initOnce sync.Once
	initErr  error
}

// NewManager creates a browser manager. Chrome is launched when the first
// session is requested.
func NewManager(cfg config.Interface, logger *zap.Logger) *Manager {
	m := &Manager{
		cfg:      cfg,
		logger:   logger.Named("browser_manager"),
		sessions: make(map[string]*Session),
	}
	m.logger.Debug("Browser manager created (initialization deferred).")
	return m
}

// initialize launches Chrome. The browser outlives ctx; only its values
// are inherited.
func (m *Manager) initialize(ctx context.Context) error {
	m.initOnce.Do(func() {
		bc := m.cfg.Browser()
		m.logger.Info("Launching browser.", zap.Bool("headless", bc.Headless), zap.String("exec_path", bc.ExecPath))

		m.allocCtx, m.allocCancel = chromedp.NewExecAllocator(context.WithoutCancel(ctx), DefaultAllocatorOptions(bc)...)
		sugar := m.logger.Sugar()
		m.browserCtx, m.browserCancel = chromedp.NewContext(m.allocCtx,
			chromedp.WithLogf(sugar.Debugf),
			chromedp.WithErrorf(sugar.Errorf))

		launchCtx, cancel := context.WithTimeout(ctx, bc.NavigationTimeout)
		defer cancel()
		if err := await(launchCtx, func() error { return chromedp.Run(m.browserCtx) }); err != nil {
			m.browserCancel()
			m.allocCancel()
			m.initErr = fmt.Errorf("failed to launch browser: %w", err)
			return
		}
		m.logger.Info("Browser launched.")
	})
	return m.initErr
}

// await runs fn but stops waiting for it once ctx is done. chromedp
// allocations cannot take ctx directly because ctx would own the browser.
func await(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)
	go func() { errCh <- fn() }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewSession opens a tab sized to the configured viewport.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	if err := m.initialize(ctx); err != nil {
		return nil, err
	}

	tab, cancel := chromedp.NewContext(m.browserCtx)
	bc := m.cfg.Browser()
	openCtx, openCancel := context.WithTimeout(ctx, bc.NavigationTimeout)
	defer openCancel()
	err := await(openCtx, func() error {
		return chromedp.Run(tab, chromedp.EmulateViewport(int64(bc.Viewport.Width), int64(bc.Viewport.Height)))
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}

	s := newSession(tab, cancel, m.cfg, m.logger)
	m.wg.Add(1)
	s.onClose = func() {
		m.mu.Lock()
		delete(m.sessions, s.ID())
		m.mu.Unlock()
		m.wg.Done()
		m.logger.Debug("Session removed from manager.", zap.String("session_id", s.ID()))
	}

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	m.logger.Info("New session created.", zap.String("session_id", s.ID()))
	return s, nil
}

// ActiveSessions returns the number of open sessions.
func (m *Manager) ActiveSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown closes every session and then the browser.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("Shutting down browser manager.")
	if m.browserCtx == nil || m.initErr != nil {
		m.logger.Debug("Browser was never launched.")
		return nil
	}

	m.mu.RLock()
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.RUnlock()

	for _, s := range open {
		go func(s *Session) {
			if err := s.Close(ctx); err != nil {
				m.logger.Warn("Error during session close in shutdown.", zap.String("session_id", s.ID()), zap.Error(err))
			}
		}(s)
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		m.logger.Info("All sessions closed gracefully.")
	case <-ctx.Done():
		m.logger.Warn("Timeout waiting for sessions to close. Proceeding with forceful shutdown.", zap.Error(ctx.Err()))
	}

	cleanupCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	var shutdownErr error
	if err := await(cleanupCtx, func() error { return chromedp.Cancel(m.browserCtx) }); err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Error("Failed to close browser.", zap.Error(err))
		shutdownErr = fmt.Errorf("failed to close browser: %w", err)
	}
	m.browserCancel()
	m.allocCancel()

	m.logger.Info("Browser manager shutdown complete.")
	return shutdownErr
}
