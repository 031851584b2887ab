// Package sink writes rendered plots to a local directory, standard output
// or an S3-compatible bucket.
package sink

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/log"
)

// Sink stores one object per key.
type Sink interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
}

// Open resolves a destination into a sink and the key to store under.
//
//	-                     standard output (key is ignored)
//	s3://bucket/dir/name  object "dir/name" in bucket
//	dir/name              file "name" under directory "dir"
//
// S3 settings beyond the bucket come from S3ConfigFromEnv.
func Open(ctx context.Context, dest string) (Sink, string, error) {
	if dest == "" {
		return nil, "", fmt.Errorf("sink: empty destination")
	}
	if dest == "-" {
		return Writer{W: os.Stdout}, "", nil
	}
	if strings.HasPrefix(dest, "s3://") {
		return openS3(ctx, dest)
	}
	d, err := NewDir(filepath.Dir(dest))
	if err != nil {
		return nil, "", err
	}
	return d, filepath.Base(dest), nil
}

// OpenPrefix resolves a destination that receives many objects. Callers
// store each object under the returned prefix followed by its own name.
//
//	s3://bucket/dir/  objects "dir/<name>" in bucket
//	dir               files "<name>" under directory "dir"
func OpenPrefix(ctx context.Context, dest string) (Sink, string, error) {
	if dest == "" || dest == "-" {
		return nil, "", fmt.Errorf("sink: %q cannot hold more than one object", dest)
	}
	if strings.HasPrefix(dest, "s3://") {
		return openS3(ctx, dest)
	}
	d, err := NewDir(dest)
	if err != nil {
		return nil, "", err
	}
	return d, "", nil
}

func openS3(ctx context.Context, dest string) (Sink, string, error) {
	bucket, key, err := ParseS3URL(dest)
	if err != nil {
		return nil, "", err
	}
	cfg := S3ConfigFromEnv()
	cfg.Bucket = bucket
	s, err := NewS3(ctx, cfg)
	if err != nil {
		return nil, "", err
	}
	return s, key, nil
}

// ParseS3URL splits s3://bucket/key. The key may be empty when the URL names
// a bucket prefix to be completed by the caller.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("sink: %w", err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("sink: %q is not an s3://bucket/key URL", raw)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// Writer copies every object to W.
type Writer struct {
	W io.Writer
}

func (w Writer) Put(_ context.Context, _ string, r io.Reader, _ string) error {
	_, err := io.Copy(w.W, r)
	return err
}

// Dir stores objects as files under a root directory.
type Dir struct {
	root string
}

// NewDir returns a directory sink, creating root if needed.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		root = "."
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Dir{root: root}, nil
}

// sanitizeKey rejects keys that would escape the root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("sink: empty key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("sink: invalid key %q", key)
	}
	return filepath.Clean(filepath.FromSlash(key)), nil
}

func (d *Dir) Put(ctx context.Context, key string, r io.Reader, _ string) error {
	k, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	path := filepath.Join(d.root, k)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".put-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	log.Debug.Printf("sink: wrote %s", path)
	return nil
}
