package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/lawnstrings/pkg/adapters/remote"
	"github.com/aretw0/lawnstrings/pkg/core"
)

// Output suffixes appended to the input's base name.
const (
	SuffixConverted = "converted"
	SuffixSorted    = "sorted"
	SuffixDiff      = "diff"
	SuffixUpdate    = "update"
)

// ConvertFile converts src from one format to another and returns the path
// of the written file. Converting a format to itself is logged as a warning
// and returns core.ErrRedundantConversion without creating a file.
func (e *Engine) ConvertFile(ctx context.Context, src string, from, to core.Format) (string, error) {
	log := e.begin("convert", "input", src, "from", from, "to", to)

	req := core.ConvertRequest{
		From:        from,
		To:          to,
		EncodingIn:  e.opts.encodingIn,
		EncodingOut: e.opts.encodingOut,
	}
	if from == to && (from != core.FormatPlainText || req.EncodingIn == req.EncodingOut) {
		err := &core.OpError{Op: "convert", From: from, To: to, Err: core.ErrRedundantConversion}
		log.Warn("nothing to convert", "error", err)
		return "", err
	}

	out := e.outputPath(src, SuffixConverted, to)
	err := e.transform(src, out, func(in io.Reader, w io.Writer) error {
		return e.service.Convert(ctx, in, w, req)
	})
	return e.finish(log, out, err)
}

// SortFile writes a copy of src with its keys in natural order.
func (e *Engine) SortFile(ctx context.Context, src string, format core.Format) (string, error) {
	log := e.begin("sort", "input", src, "format", format)

	out := e.outputPath(src, SuffixSorted, format)
	err := e.transform(src, out, func(in io.Reader, w io.Writer) error {
		return e.service.Sort(ctx, in, w, format, e.opts.encodingIn)
	})
	return e.finish(log, out, err)
}

// CompareFiles diffs newPath against oldPath and writes the result next to oldPath.
func (e *Engine) CompareFiles(ctx context.Context, oldPath, newPath string, format core.Format, mode core.CompareMode, exclude core.ExcludeSet) (string, error) {
	log := e.begin("compare", "old", oldPath, "new", newPath, "format", format, "mode", mode)

	newFile, err := os.Open(newPath)
	if err != nil {
		return e.finish(log, "", fmt.Errorf("failed to open %s: %w", newPath, err))
	}
	defer newFile.Close()

	req := core.CompareRequest{
		Format:   format,
		Mode:     mode,
		Encoding: e.opts.encodingIn,
		Exclude:  exclude,
	}
	out := e.outputPath(oldPath, SuffixDiff, format)
	err = e.transform(oldPath, out, func(old io.Reader, w io.Writer) error {
		return e.service.Compare(ctx, old, newFile, w, req)
	})
	return e.finish(log, out, err)
}

// Update writes the strings the server has and localPath lacks to
// <local>_update.txt.
func (e *Engine) Update(ctx context.Context, localPath, server string, exclude core.ExcludeSet) (string, error) {
	log := e.begin("update", "local", localPath, "server", server)

	out := e.outputPath(localPath, SuffixUpdate, core.FormatPlainText)
	err := e.transform(localPath, out, func(local io.Reader, w io.Writer) error {
		return e.remote.GetUpdate(ctx, local, w, server, exclude)
	})
	return e.finish(log, out, err)
}

// Download fetches res from server into <baseDir>/<server>.
func (e *Engine) Download(ctx context.Context, server string, res remote.Resource, baseDir string) ([]string, error) {
	log := e.begin("download", "server", server, "resource", res, "dir", baseDir)
	start := time.Now()

	paths, err := e.remote.DownloadAll(ctx, server, res, baseDir)
	if err != nil {
		log.Error("download failed", "error", err)
		return nil, err
	}

	e.mu.Lock()
	e.written += len(paths)
	e.mu.Unlock()

	log.Info("download finished", "files", paths, "duration", time.Since(start))
	return paths, nil
}

// Manifest returns the server file list entry for src under name. An empty
// name uses the base name of src.
func (e *Engine) Manifest(src, name string) (remote.Manifest, error) {
	f, err := os.Open(src)
	if err != nil {
		return remote.Manifest{}, fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer f.Close()

	if name == "" {
		name = filepath.Base(src)
	}
	return remote.NewManifest(f, name)
}

// transform opens src and streams fn's output atomically into dst.
func (e *Engine) transform(src, dst string, fn func(io.Reader, io.Writer) error) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return writeFileAtomic(dst, 0644, func(w io.Writer) error {
		return fn(in, w)
	})
}

func (e *Engine) outputPath(src, suffix string, format core.Format) string {
	if e.opts.outputDir != "" {
		return buildPathIn(e.opts.outputDir, src, suffix, format)
	}
	return BuildPath(src, suffix, format)
}

// begin tags every log line of one operation with a fresh id.
func (e *Engine) begin(op string, args ...any) *slog.Logger {
	log := e.logger.With("op", op, "id", uuid.NewString())
	log.Info(op+" started", args...)
	return log
}

func (e *Engine) finish(log *slog.Logger, out string, err error) (string, error) {
	if err != nil {
		if errors.Is(err, core.ErrRedundantConversion) {
			log.Warn("nothing to do", "error", err)
		} else {
			log.Error("operation failed", "error", err)
		}
		return "", err
	}

	e.mu.Lock()
	e.written++
	e.mu.Unlock()

	log.Info("operation finished", "output", out)
	return out, nil
}
