// internal/browser/devtools/executor_test.go
package devtools

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// TestTabExecutor swaps the chromedp runner for a stub to check how commands
// are batched, bounded and wrapped.
func TestTabExecutor(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("runs one action per command", func(t *testing.T) {
		var captured []chromedp.Action
		exec := &tabExecutor{
			logger:  logger,
			timeout: time.Second,
			runActionsFunc: func(ctx context.Context, actions ...chromedp.Action) error {
				captured = append(captured, actions...)
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline, "every command carries the call timeout")
				return nil
			},
		}

		_, _, err := exec.CallFunctionOn(context.Background(), runtime.CallFunctionOn(jsParent))
		require.NoError(t, err)
		_, _, err = exec.Evaluate(context.Background(), runtime.Evaluate("1"))
		require.NoError(t, err)
		_, err = exec.DescribeNode(context.Background(), dom.DescribeNode())
		require.NoError(t, err)
		require.NoError(t, exec.ReleaseObject(context.Background(), runtime.ReleaseObject("x")))

		require.Len(t, captured, 4)
		for _, a := range captured {
			assert.IsType(t, chromedp.ActionFunc(nil), a)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		exec := &tabExecutor{
			logger:  logger,
			timeout: 10 * time.Millisecond,
			runActionsFunc: func(ctx context.Context, _ ...chromedp.Action) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}

		_, _, err := exec.CallFunctionOn(context.Background(), runtime.CallFunctionOn(jsParent))
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Contains(t, err.Error(), "Runtime.callFunctionOn timed out after 10ms")
	})

	t.Run("failure", func(t *testing.T) {
		boom := errors.New("websocket closed")
		exec := &tabExecutor{
			logger:  logger,
			timeout: time.Second,
			runActionsFunc: func(context.Context, ...chromedp.Action) error {
				return boom
			},
		}

		err := exec.ReleaseObject(context.Background(), runtime.ReleaseObject("x"))
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "Runtime.releaseObject")
	})

	t.Run("tab without a browser", func(t *testing.T) {
		exec := NewTabExecutor(context.Background(), logger, time.Second)
		_, err := exec.DescribeNode(context.Background(), dom.DescribeNode())
		assert.ErrorIs(t, err, chromedp.ErrInvalidContext)
	})
}
