// internal/driver/script.go
package driver

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Script is an ordered list of commands run against one page.
type Script []Command

// DecodeScript reads a JSON array of commands.
func DecodeScript(r io.Reader) (Script, error) {
	var s Script
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	for i, cmd := range s {
		if cmd.Name == "" {
			return nil, fmt.Errorf("decode script: command %d has no name", i)
		}
	}
	return s, nil
}

// Run executes the script in order and stops at the first command that does
// not succeed. The responses gathered so far are returned either way.
func (d *Driver) Run(ctx context.Context, script Script) ([]Response, error) {
	responses := make([]Response, 0, len(script))
	for i, cmd := range script {
		if err := ctx.Err(); err != nil {
			return responses, err
		}
		resp := d.Execute(ctx, cmd)
		responses = append(responses, resp)
		if !resp.OK() {
			return responses, fmt.Errorf("command %d (%s) failed with status %d: %v", i, cmd.Name, resp.Status, resp.Value)
		}
	}
	d.logger.Info("Script complete.", zap.Int("commands", len(script)))
	return responses, nil
}
