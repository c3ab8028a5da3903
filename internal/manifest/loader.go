package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/objectmomma/internal/ctxlog"
	"github.com/specialistvlad/objectmomma/internal/fsutil"
)

// DirLoader finds builder manifests in every .hcl file below a directory.
// The directory is walked once, on first use.
type DirLoader struct {
	path string

	once  sync.Once
	index map[string]*Manifest
	err   error
}

// NewDirLoader returns a loader rooted at path.
func NewDirLoader(path string) *DirLoader {
	return &DirLoader{path: path}
}

// Load returns the manifest declaring objectType, or nil when no file declares it.
func (l *DirLoader) Load(ctx context.Context, objectType string) (*Manifest, error) {
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	return l.index[objectType], nil
}

// All returns every indexed manifest sorted by type.
func (l *DirLoader) All(ctx context.Context) ([]*Manifest, error) {
	if err := l.load(ctx); err != nil {
		return nil, err
	}
	all := make([]*Manifest, 0, len(l.index))
	for _, m := range l.index {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Type < all[j].Type })
	return all, nil
}

func (l *DirLoader) load(ctx context.Context) error {
	l.once.Do(func() {
		l.index, l.err = l.walk(ctx)
	})
	return l.err
}

func (l *DirLoader) walk(ctx context.Context) (map[string]*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading builder manifests from modules path...", "path", l.path)

	index := make(map[string]*Manifest)
	if l.path == "" {
		return index, nil
	}

	filePaths, err := fsutil.FindFilesByExtension(l.path, ".hcl")
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Modules path does not exist", "path", l.path)
		return index, nil
	}
	if err != nil {
		logger.Error("Failed to walk modules directory", "path", l.path, "error", err)
		return nil, err
	}

	if len(filePaths) == 0 {
		logger.Warn("No .hcl builder files found in path", "path", l.path)
		return index, nil
	}

	parser := hclparse.NewParser()
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		manifests, diags := ParseFile(ctx, hclFile, filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to process builder definitions in %s: %w", filePath, diags)
		}

		for _, m := range manifests {
			if prev, dup := index[m.Type]; dup {
				return nil, fmt.Errorf("builder '%s' declared in both %s and %s", m.Type, prev.FSInformation.FilePath, filePath)
			}
			index[m.Type] = m
		}
		logger.Debug("Successfully loaded definitions from HCL file", "file", filePath)
	}

	logger.Info("Builder manifests loaded.", "builders_loaded", len(index))
	return index, nil
}
