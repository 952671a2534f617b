// internal/browser/devtools/context.go
package devtools

import "context"

// CombineContext derives a context from tab, which carries the chromedp
// target, that is also cancelled when op is done. Values come from tab only.
func CombineContext(tab, op context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(tab)
	stop := context.AfterFunc(op, cancel)
	return combined, func() {
		stop()
		cancel()
	}
}
