package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/specialistvlad/objectmomma/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Result is what Run prints for every call, one JSON document per line.
type Result struct {
	Call       string `json:"call"`
	Identifier string `json:"identifier"`
	Value      any    `json:"value"`
}

// Run spawns the configured batch file, if any, then executes calls in order
// and writes one Result per call. The first failing call stops the run.
func (a *App) Run(ctx context.Context, calls []Invocation) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "calls", len(calls))

	if a.config.SpawnPath != "" {
		if err := a.spawnFile(ctx, a.config.SpawnPath); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(a.outW)
	for _, inv := range calls {
		value, err := a.router.Call(ctx, inv.Call, inv.Identifier)
		if err != nil {
			return fmt.Errorf("%s %q: %w", inv.Call, inv.Identifier, err)
		}
		if err := enc.Encode(Result{Call: inv.Call, Identifier: inv.Identifier, Value: value}); err != nil {
			return fmt.Errorf("writing result of %s: %w", inv.Call, err)
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// spawnFile reads a YAML mapping of object types to identifier lists:
//
//	users:
//	  - Scott Pilgrim
//	  - Ramona Flowers
func (a *App) spawnFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read spawn file: %w", err)
	}
	var batch map[string][]any
	if err := yaml.Unmarshal(content, &batch); err != nil {
		return fmt.Errorf("failed to decode spawn file %s: %w", path, err)
	}
	if err := a.router.Spawn(ctx, batch); err != nil {
		return err
	}
	a.logger.Info("Spawn file processed.", "path", path, "types", len(batch))
	return nil
}
