// Package overlay supplies per-object attribute overrides to builders.
//
// A YAML overlay directory holds one file per object type, named after the
// plural of the type and keyed by child identifier:
//
//	# users.yml
//	Scott:
//	  email: scott@example.com
//	  username: scott
package overlay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/jinzhu/inflection"
	"github.com/specialistvlad/objectmomma/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// Source looks up attribute overrides for a single object.
type Source interface {
	AttributesFor(ctx context.Context, objectType, childID string) (map[string]any, error)
}

// None is a Source with no overrides.
type None struct{}

// AttributesFor always returns an empty map.
func (None) AttributesFor(context.Context, string, string) (map[string]any, error) {
	return map[string]any{}, nil
}

var extensions = []string{".yml", ".yaml"}

// YAMLDir reads overrides from YAML files in a directory. Files are read once
// per type and cached.
type YAMLDir struct {
	dir string

	mu    sync.Mutex
	files map[string]map[string]map[string]any
}

// NewYAMLDir returns a YAMLDir for dir, which must be an existing directory.
func NewYAMLDir(dir string) (*YAMLDir, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("overlay: %s is not a directory", dir)
	}
	return &YAMLDir{dir: dir, files: make(map[string]map[string]map[string]any)}, nil
}

// AttributesFor returns the overrides for childID, or an empty map when the
// type has no file or the file has no entry for childID.
func (y *YAMLDir) AttributesFor(ctx context.Context, objectType, childID string) (map[string]any, error) {
	entries, err := y.entries(ctx, objectType)
	if err != nil {
		return nil, err
	}
	attrs := maps.Clone(entries[childID])
	if attrs == nil {
		attrs = map[string]any{}
	}
	return attrs, nil
}

func (y *YAMLDir) entries(ctx context.Context, objectType string) (map[string]map[string]any, error) {
	y.mu.Lock()
	defer y.mu.Unlock()

	if entries, ok := y.files[objectType]; ok {
		return entries, nil
	}

	logger := ctxlog.FromContext(ctx)
	entries := map[string]map[string]any{}
	base := filepath.Join(y.dir, inflection.Plural(objectType))
	for _, ext := range extensions {
		path := base + ext
		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("overlay: read %s: %w", path, err)
		}
		if len(bytes.TrimSpace(content)) > 0 {
			if err := yaml.Unmarshal(content, &entries); err != nil {
				return nil, fmt.Errorf("overlay: decode %s: %w", path, err)
			}
		}
		logger.Debug("Loaded attribute overlay.", "type", objectType, "file", path, "entries", len(entries))
		break
	}

	y.files[objectType] = entries
	return entries, nil
}
