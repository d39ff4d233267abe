// Package asset loads the cube model into a scene graph.
//
// Loading may block on disk or network, so the viewer runs it through Async and polls the
// returned channel from the frame loop; the scene graph is only handed over once complete.
package asset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"rubik-viewer/internal/download"
	"rubik-viewer/internal/scenegraph"
)

// DefaultModel is the model path used when nothing else is configured.
const DefaultModel = "assets/rubix3.0.glb"

var (
	// ErrLoad wraps every failure to produce a scene graph.
	ErrLoad = errors.New("asset: load failed")
	// ErrNoScene is returned for documents with no nodes to show.
	ErrNoScene = errors.New("asset: document has no scene")
)

// Loader produces a scene graph root from a source path or URL.
type Loader interface {
	Load(ctx context.Context, src string) (*scenegraph.Node, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, src string) (*scenegraph.Node, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, src string) (*scenegraph.Node, error) {
	return f(ctx, src)
}

// Result is delivered once per Async call.
type Result struct {
	Source string
	Root   *scenegraph.Node
	Err    error
}

// Async runs l.Load on its own goroutine. The returned channel receives exactly one
// Result and is never closed, so a poller can select on it without a closed-channel case.
func Async(ctx context.Context, l Loader, src string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		root, err := l.Load(ctx, src)
		if err == nil && root == nil {
			err = ErrNoScene
		}
		if err != nil && !errors.Is(err, ErrLoad) {
			err = fmt.Errorf("%w: %s: %w", ErrLoad, src, err)
		}
		out <- Result{Source: src, Root: root, Err: err}
	}()
	return out
}

// Resolve returns the first existing candidate for a local path. Relative paths are also
// tried two directories up so the viewer runs from the repo root or from cmd/viewer.
// URLs are returned unchanged.
func Resolve(src string) (string, error) {
	if src == "" {
		src = DefaultModel
	}
	if download.IsURL(src) {
		return src, nil
	}
	candidates := []string{src}
	if !filepath.IsAbs(src) {
		candidates = append(candidates, filepath.Join("..", "..", src))
	}
	for _, p := range candidates {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %s: %w", ErrLoad, src, os.ErrNotExist)
}
