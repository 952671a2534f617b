// internal/browser/devtools/executor.go
package devtools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Executor is the part of the DevTools protocol a Page talks to.
type Executor interface {
	CallFunctionOn(ctx context.Context, p *runtime.CallFunctionOnParams) (*runtime.RemoteObject, *runtime.ExceptionDetails, error)
	Evaluate(ctx context.Context, p *runtime.EvaluateParams) (*runtime.RemoteObject, *runtime.ExceptionDetails, error)
	DescribeNode(ctx context.Context, p *dom.DescribeNodeParams) (*cdp.Node, error)
	ReleaseObject(ctx context.Context, p *runtime.ReleaseObjectParams) error
}

// tabExecutor runs protocol commands against one chromedp tab. Every
// command is bounded by timeout on top of the caller's context.
type tabExecutor struct {
	logger         *zap.Logger
	timeout        time.Duration
	runActionsFunc func(ctx context.Context, actions ...chromedp.Action) error
}

var _ Executor = (*tabExecutor)(nil)

// NewTabExecutor returns an Executor bound to a chromedp tab context.
// Cancelling either the tab or the per-call context aborts a command.
func NewTabExecutor(tab context.Context, logger *zap.Logger, timeout time.Duration) Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tabExecutor{
		logger:  logger.Named("cdp_executor"),
		timeout: timeout,
		runActionsFunc: func(ctx context.Context, actions ...chromedp.Action) error {
			combined, cancel := CombineContext(tab, ctx)
			defer cancel()
			return chromedp.Run(combined, actions...)
		},
	}
}

func (e *tabExecutor) CallFunctionOn(ctx context.Context, p *runtime.CallFunctionOnParams) (res *runtime.RemoteObject, exc *runtime.ExceptionDetails, err error) {
	err = e.run(ctx, "Runtime.callFunctionOn", func(ctx context.Context) error {
		res, exc, err = p.Do(ctx)
		return err
	})
	return res, exc, err
}

func (e *tabExecutor) Evaluate(ctx context.Context, p *runtime.EvaluateParams) (res *runtime.RemoteObject, exc *runtime.ExceptionDetails, err error) {
	err = e.run(ctx, "Runtime.evaluate", func(ctx context.Context) error {
		res, exc, err = p.Do(ctx)
		return err
	})
	return res, exc, err
}

func (e *tabExecutor) DescribeNode(ctx context.Context, p *dom.DescribeNodeParams) (node *cdp.Node, err error) {
	err = e.run(ctx, "DOM.describeNode", func(ctx context.Context) error {
		node, err = p.Do(ctx)
		return err
	})
	return node, err
}

func (e *tabExecutor) ReleaseObject(ctx context.Context, p *runtime.ReleaseObjectParams) error {
	return e.run(ctx, "Runtime.releaseObject", p.Do)
}

func (e *tabExecutor) run(ctx context.Context, method string, fn chromedp.ActionFunc) error {
	opCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	err := e.runActionsFunc(opCtx, fn)
	if err != nil && errors.Is(opCtx.Err(), context.DeadlineExceeded) {
		e.logger.Debug("Protocol command timed out.", zap.String("method", method), zap.Duration("timeout", e.timeout))
		return fmt.Errorf("devtools: %s timed out after %v: %w", method, e.timeout, opCtx.Err())
	}
	if err != nil {
		return fmt.Errorf("devtools: %s: %w", method, err)
	}
	return nil
}
