// File: cmd/run.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/synthmouse/internal/browser"
	"github.com/xkilldash9x/synthmouse/internal/browser/static"
	"github.com/xkilldash9x/synthmouse/internal/config"
	"github.com/xkilldash9x/synthmouse/internal/driver"
	"github.com/xkilldash9x/synthmouse/internal/observability"
)

const sessionCloseTimeout = 10 * time.Second

// pageReport is the output for one page.
type pageReport struct {
	Page      string            `json:"page"`
	Responses []driver.Response `json:"responses"`
	Error     string            `json:"error,omitempty"`
}

func newRunCmd() *cobra.Command {
	var (
		scriptPath string
		staticPath string
		urls       []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a command script against a static HTML file or live pages",
		Long: `Run executes a JSON array of driver commands, for example

  [{"name": "findElement", "parameters": {"using": "id", "value": "ok"}, "as": "ok"},
   {"name": "mouseMoveTo", "parameters": {"element": "ok", "xoffset": 5, "yoffset": 5}},
   {"name": "click"}]

against a static HTML document (--static) or one or more URLs in Chrome
(--url, repeatable). Pages given with --url run concurrently.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (staticPath == "") == (len(urls) == 0) {
				return errors.New("exactly one of --static or --url is required")
			}
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			script, err := loadScript(scriptPath)
			if err != nil {
				return err
			}

			var reports []pageReport
			if staticPath != "" {
				reports, err = runStatic(cmd.Context(), cfg, staticPath, script)
			} else {
				reports, err = runURLs(cmd.Context(), cfg, urls, script)
			}
			if werr := writeReports(cmd.OutOrStdout(), reports); werr != nil {
				return werr
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "path to the JSON command script")
	cmd.Flags().StringVar(&staticPath, "static", "", "path to an HTML file to run against without a browser")
	cmd.Flags().StringArrayVarP(&urls, "url", "u", nil, "URL to open in Chrome (repeatable)")
	cmd.Flags().Bool("headless", true, "run Chrome headless")
	cmd.Flags().String("exec-path", "", "path to the Chrome binary")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

func loadScript(path string) (driver.Script, error) {
	f, err := openExpanded(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return driver.DecodeScript(f)
}

func openExpanded(path string) (*os.File, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	return os.Open(expanded)
}

func runStatic(ctx context.Context, cfg config.Interface, path string, script driver.Script) ([]pageReport, error) {
	logger := observability.Component("run")

	f, err := openExpanded(path)
	if err != nil {
		return nil, fmt.Errorf("open static page: %w", err)
	}
	defer f.Close()

	vp := cfg.Static().Viewport
	doc, err := static.Parse(f, logger, static.WithViewport(float64(vp.Width), float64(vp.Height)))
	if err != nil {
		return nil, err
	}

	responses, err := driver.New(doc, logger).Run(ctx, script)
	report := pageReport{Page: path, Responses: responses}
	if err != nil {
		report.Error = err.Error()
	}
	return []pageReport{report}, err
}

func runURLs(ctx context.Context, cfg config.Interface, urls []string, script driver.Script) ([]pageReport, error) {
	logger := observability.Component("run")
	mgr := browser.NewManager(cfg, logger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*sessionCloseTimeout)
		defer cancel()
		if err := mgr.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Browser shutdown failed.", zap.Error(err))
		}
	}()

	reports := make([]pageReport, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		g.Go(func() error {
			reports[i] = pageReport{Page: url}
			responses, err := runURL(gctx, mgr, url, script)
			reports[i].Responses = responses
			if err != nil {
				reports[i].Error = err.Error()
				return fmt.Errorf("%s: %w", url, err)
			}
			return nil
		})
	}
	return reports, g.Wait()
}

func runURL(ctx context.Context, mgr *browser.Manager, url string, script driver.Script) ([]driver.Response, error) {
	session, err := mgr.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sessionCloseTimeout)
		defer cancel()
		_ = session.Close(closeCtx)
	}()

	if err := session.Navigate(ctx, url); err != nil {
		return nil, err
	}
	return driver.New(session.Page(), observability.Component("run").With(zap.String("session_id", session.ID()))).Run(ctx, script)
}

func writeReports(w io.Writer, reports []pageReport) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	for _, r := range reports {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
