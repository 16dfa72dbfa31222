package strip

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/viant/afs"
	"go.uber.org/zap"
)

// DefaultTarget is the file stripped when no path is configured.
const DefaultTarget = "src/lib/models.ts"

// ErrInvalidUTF8 is returned when the target is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("file is not valid UTF-8")

const fileMode = 0o644

// Options configures File.
type Options struct {
	// Stripper defaults to the `recommended: true|false` rules.
	Stripper *Stripper
	// FS defaults to afs.New(); plain paths resolve to local files.
	FS afs.Service
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// DryRun computes the result without writing it back.
	DryRun bool
}

// FileResult is the outcome of File.
type FileResult struct {
	Result
	Path     string
	Original string // source text after newline normalisation
	Written  bool
}

// File reads path, strips flag lines and overwrites path with the result.
// The write is a plain in-place overwrite: no backup, no temp file, no
// rename. The file is rewritten even when nothing changed.
func File(ctx context.Context, path string, opts Options) (*FileResult, error) {
	s := opts.Stripper
	if s == nil {
		s = defaultStripper
	}
	fs := opts.FS
	if fs == nil {
		fs = afs.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	url, err := location(path)
	if err != nil {
		return nil, err
	}

	logger.Debug("reading target", zap.String("path", path), zap.String("url", url))
	data, err := read(ctx, fs, url)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("read %s: %w", path, ErrInvalidUTF8)
	}

	src := NormalizeNewlines(string(data))
	res := s.Transform(src)
	logger.Debug("transformed target",
		zap.String("path", path),
		zap.Int("removed_lines", res.Stats.RemovedLines),
		zap.Int("collapsed_commas", res.Stats.CollapsedCommas),
		zap.Int("trailing_commas", res.Stats.TrailingCommas),
	)

	out := &FileResult{Result: res, Path: path, Original: src}
	if opts.DryRun {
		logger.Info("dry run, target left untouched", zap.String("path", path))
		return out, nil
	}

	if err := write(ctx, fs, url, []byte(res.Text)); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	out.Written = true

	logger.Info("stripped flag lines",
		zap.String("path", path),
		zap.String("field", s.Rules().Field),
		zap.Int("removed_lines", res.Stats.RemovedLines),
		zap.Int("bytes", len(res.Text)),
	)
	return out, nil
}

// location turns a plain path into an absolute file location; URLs with a
// scheme pass through untouched.
func location(path string) (string, error) {
	if !isLocal(path) {
		return path, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

func isLocal(url string) bool {
	return !strings.Contains(url, "://")
}

// write overwrites the target. Local files are truncated and written through
// the same path, so symlinks are followed, the mode and hard links are kept,
// and an unwritable file fails. afs Upload replaces the file instead, so it
// only serves URLs with a scheme.
func write(ctx context.Context, fs afs.Service, url string, data []byte) (err error) {
	if !isLocal(url) {
		return fs.Upload(ctx, url, fileMode, bytes.NewReader(data))
	}

	f, err := os.OpenFile(url, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = f.Write(data)
	return err
}

func read(ctx context.Context, fs afs.Service, path string) ([]byte, error) {
	rc, err := fs.OpenURL(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
