// Package export writes the rendered history list to a file or an S3
// bucket.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"calcnerd/internal/config"
	"calcnerd/internal/history"
	"calcnerd/internal/logging"
)

// DefaultName is the export file (or object) name.
const DefaultName = "calculator-history.txt"

// ContentType is sent with uploaded exports.
const ContentType = "text/plain; charset=utf-8"

// ErrInvalidTarget is returned for targets ParseTarget cannot understand.
var ErrInvalidTarget = errors.New("invalid export target")

// Sink stores an export body under name and reports where it went.
type Sink interface {
	Write(ctx context.Context, name string, body []byte) (location string, err error)
}

// Target is a parsed export destination.
type Target struct {
	// S3 targets
	Bucket string
	Prefix string

	// File targets
	Dir string

	// Name overrides DefaultName when the target names a file.
	Name string
}

// IsS3 reports whether the target is an S3 location.
func (t Target) IsS3() bool { return t.Bucket != "" }

// ParseTarget parses "s3://bucket[/prefix]" or a filesystem path. A path
// ending in ".txt" names the file itself; anything else is a directory.
func ParseTarget(raw string) (Target, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Target{}, fmt.Errorf("%w: empty", ErrInvalidTarget)
	}

	if rest, ok := strings.CutPrefix(raw, "s3://"); ok {
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Target{}, fmt.Errorf("%w: %q has no bucket", ErrInvalidTarget, raw)
		}
		return Target{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
	}
	if strings.Contains(raw, "://") {
		return Target{}, fmt.Errorf("%w: unsupported scheme in %q", ErrInvalidTarget, raw)
	}

	if strings.EqualFold(filepath.Ext(raw), ".txt") {
		return Target{Dir: filepath.Dir(raw), Name: filepath.Base(raw)}, nil
	}
	return Target{Dir: raw}, nil
}

// Resolve picks the sink for target. An empty target falls back to the
// configured S3 bucket when one is set, otherwise to the export directory.
func Resolve(ctx context.Context, target string, cfg config.ExportConfig) (Sink, string, error) {
	var t Target
	if target != "" {
		parsed, err := ParseTarget(target)
		if err != nil {
			return nil, "", err
		}
		t = parsed
	} else if cfg.S3.Enabled() {
		t = Target{Bucket: cfg.S3.Bucket, Prefix: cfg.S3.Prefix}
	} else {
		t = Target{Dir: cfg.Dir}
	}

	name := t.Name
	if name == "" {
		name = DefaultName
	}

	if t.IsS3() {
		opts := cfg.S3
		opts.Bucket = t.Bucket
		opts.Prefix = t.Prefix
		sink, err := NewS3Sink(ctx, opts)
		if err != nil {
			return nil, "", err
		}
		return sink, name, nil
	}
	return &FileSink{Dir: t.Dir}, name, nil
}

// History renders entries in the export format and writes them to sink.
func History(ctx context.Context, sink Sink, name string, entries []history.Entry) (string, error) {
	timer := logging.StartTimer(logging.CategoryExport, "History")
	defer timer.Stop()

	var buf bytes.Buffer
	if err := history.Export(&buf, entries); err != nil {
		return "", fmt.Errorf("failed to render history: %w", err)
	}
	location, err := sink.Write(ctx, name, buf.Bytes())
	if err != nil {
		logging.Get(logging.CategoryExport).Error("Export of %d entries failed: %v", len(entries), err)
		return "", err
	}
	logging.Export("Exported %d entries to %s", len(entries), location)
	return location, nil
}

// FileSink writes exports into a local directory.
type FileSink struct {
	Dir string
}

// Write creates or replaces Dir/name.
func (s *FileSink) Write(_ context.Context, name string, body []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}
