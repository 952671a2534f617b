// internal/browser/default_allocator_options_test.go
package browser

import (
	"strings"
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/synthmouse/internal/config"
)

// hasFlag checks the rendered switches, since allocator options are opaque funcs.
func hasFlag(flags []launchFlag, substring string) bool {
	for _, f := range flags {
		if strings.Contains(f.String(), substring) {
			return true
		}
	}
	return false
}

func TestDefaultAllocatorOptions(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		cfg := config.BrowserConfig{Headless: true}
		flags := launchFlags(cfg)
		assert.True(t, hasFlag(flags, "--headless=true"))
		assert.False(t, hasFlag(flags, "window-size"), "no viewport, no window size")
		assert.False(t, hasFlag(flags, "ignore-certificate-errors"))
	})

	t.Run("HeadlessDisabled", func(t *testing.T) {
		cfg := config.BrowserConfig{Headless: false}
		assert.True(t, hasFlag(launchFlags(cfg), "--headless=false"))
		assert.NotEmpty(t, DefaultAllocatorOptions(cfg))
	})

	t.Run("IgnoreTLSErrors", func(t *testing.T) {
		flags := launchFlags(config.BrowserConfig{IgnoreTLSErrors: true})
		assert.True(t, hasFlag(flags, "ignore-certificate-errors"))
		assert.True(t, hasFlag(flags, "allow-insecure-localhost"))
	})

	t.Run("WithCustomArgs", func(t *testing.T) {
		flags := launchFlags(config.BrowserConfig{Args: []string{"--custom-arg1", "--lang=de-DE", " ", "--"}})
		assert.True(t, hasFlag(flags, "--custom-arg1=true"))
		assert.True(t, hasFlag(flags, "--lang=de-DE"))
		assert.Len(t, flags, 6, "blank args are dropped")
	})

	t.Run("WithViewport", func(t *testing.T) {
		cfg := config.BrowserConfig{Viewport: config.ViewportSize{Width: 1920, Height: 1080}}
		assert.True(t, hasFlag(launchFlags(cfg), "--window-size=1920,1080"))
	})

	t.Run("ExecPathAndUserAgent", func(t *testing.T) {
		base := DefaultAllocatorOptions(config.BrowserConfig{})
		full := DefaultAllocatorOptions(config.BrowserConfig{ExecPath: "/usr/bin/chromium", UserAgent: "synthmouse/1.0"})
		assert.Len(t, full, len(base)+2)
		assert.Len(t, base, len(chromedp.DefaultExecAllocatorOptions)+4)
	})
}
