// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcs implements the fs.FS interface using Google Cloud Storage.
package gcs

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/Integer-Ctrl/machine-learning-compilers/storage/fs"
)

// Scheme prefixes store locations that name a bucket.
const Scheme = "gs://"

// impl is an fs.FS backed by Google Cloud Storage.
type impl struct {
	bucket *storage.BucketHandle
}

// NewFS constructs an FS that writes to the provided bucket.
func NewFS(ctx context.Context, bucketName string, opts ...option.ClientOption) (fs.FS, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &impl{client.Bucket(bucketName)}, nil
}

// ParseURL returns the bucket and object prefix named by a
// gs://bucket[/prefix] location. ok is false if loc does not use the
// gs scheme.
func ParseURL(loc string) (bucket, prefix string, ok bool, err error) {
	rest, ok := strings.CutPrefix(loc, Scheme)
	if !ok {
		return "", "", false, nil
	}
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", true, fmt.Errorf("gcs: missing bucket in %q", loc)
	}
	return bucket, strings.Trim(prefix, "/"), true, nil
}

func (fs *impl) NewWriter(ctx context.Context, name string, metadata map[string]string) (fs.Writer, error) {
	ctx, cancel := context.WithCancel(ctx)
	w := fs.bucket.Object(name).NewWriter(ctx)
	w.Metadata = metadata
	return &writer{Writer: w, cancel: cancel}, nil
}

// writer aborts the upload by canceling the context it was created
// with.
type writer struct {
	*storage.Writer
	cancel context.CancelFunc
}

func (w *writer) Close() error {
	defer w.cancel()
	return w.Writer.Close()
}

func (w *writer) CloseWithError(err error) error {
	w.cancel()
	// Close reports the cancellation; the object is not created.
	w.Writer.Close()
	return nil
}
