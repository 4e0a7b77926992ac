// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Gemmsave converts Google Benchmark JSON results of the BM_matmul
// benchmark and archives the rows in a database.
//
// Usage:
//
//	gemmsave [-db driver] [-dsn dsn] [-store dir|gs://bucket] [-credentials file] file...
//
// Each input file becomes one upload. Gemmsave prints the upload ID
// assigned to each file. When -store is set, the input file and the
// CSV generated from it are also copied to
// uploads/<uploadid>/<base> and uploads/<uploadid>/<base>.csv under
// the store, which is either a local directory or a Cloud Storage
// bucket.
//
// The database defaults to a sqlite3 file. With -db mysql, DSNs of the
// form user:pass@cloudsql(project:region:instance)/db connect through
// the Cloud SQL proxy dialer.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/Integer-Ctrl/machine-learning-compilers/benchunit"
	"github.com/Integer-Ctrl/machine-learning-compilers/gbench"
	"github.com/Integer-Ctrl/machine-learning-compilers/gemm"
	"github.com/Integer-Ctrl/machine-learning-compilers/internal/logutil"
	"github.com/Integer-Ctrl/machine-learning-compilers/storage/db"
	_ "github.com/Integer-Ctrl/machine-learning-compilers/storage/db/sqlite3"
	"github.com/Integer-Ctrl/machine-learning-compilers/storage/fs"
	"github.com/Integer-Ctrl/machine-learning-compilers/storage/fs/gcs"
	"github.com/Integer-Ctrl/machine-learning-compilers/storage/fs/local"
)

var (
	driver      = flag.String("db", "sqlite3", "database `driver` (sqlite3 or mysql)")
	dsn         = flag.String("dsn", "gemm.db", "database `dsn`")
	storeLoc    = flag.String("store", "", "copy inputs and CSVs to `dir` or gs://bucket")
	credentials = flag.String("credentials", "", "Google service account credentials `file` for gs:// stores")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: gemmsave [flags] file...

gemmsave converts the BM_matmul results in Google Benchmark JSON files
and archives the rows, one upload per file.

`)
	flag.PrintDefaults()
}

func main() {
	log := logutil.New("gemmsave")
	defer log.Sync()

	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()

	d, err := db.OpenSQL(*driver, *dsn)
	if err != nil {
		log.Fatal("open database", zap.String("driver", *driver), zap.Error(err))
	}
	defer d.Close()

	store, prefix, err := openStore(ctx, *storeLoc, *credentials)
	if err != nil {
		log.Fatal("open store", zap.String("store", *storeLoc), zap.Error(err))
	}

	a := &archiver{db: d, fs: store, prefix: prefix, log: log}
	for _, name := range flag.Args() {
		id, err := a.archive(ctx, name)
		if err != nil {
			log.Fatal("archive failed", zap.String("file", name), zap.Error(err))
		}
		fmt.Printf("%s: upload %s\n", name, id)
	}
}

// openStore returns the FS named by loc and the prefix to place
// archived files under. It returns a nil FS if loc is empty.
func openStore(ctx context.Context, loc, credentialsFile string) (fs.FS, string, error) {
	if loc == "" {
		return nil, "", nil
	}
	bucket, prefix, ok, err := gcs.ParseURL(loc)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		store, err := local.NewFS(loc)
		return store, "", err
	}

	var opt option.ClientOption
	if credentialsFile != "" {
		opt = option.WithCredentialsFile(credentialsFile)
	} else {
		ts, err := google.DefaultTokenSource(ctx, storage.ScopeReadWrite)
		if err != nil {
			return nil, "", err
		}
		opt = option.WithTokenSource(ts)
	}
	store, err := gcs.NewFS(ctx, bucket, opt)
	return store, prefix, err
}

// An archiver stores converted benchmark files.
type archiver struct {
	db *db.DB
	// fs receives copies of the inputs and CSVs; nil disables copying.
	fs     fs.FS
	prefix string
	log    *zap.Logger
}

// archive converts the file at name and stores it as a new upload,
// returning the upload ID. Nothing is committed if any step fails.
func (a *archiver) archive(ctx context.Context, name string) (string, error) {
	doc, err := gbench.ReadFile(name)
	if err != nil {
		return "", err
	}
	rows, stats := gemm.Convert(doc.Benchmarks)

	base := filepath.Base(name)
	u, err := a.db.NewUpload(ctx, db.Metadata{
		Source:     base,
		HostName:   doc.Context.HostName,
		Executable: doc.Context.Executable,
		Date:       doc.Context.Date,
		NumCPUs:    doc.Context.NumCPUs,
		BuildType:  doc.Context.LibraryBuildType,
	})
	if err != nil {
		return "", err
	}
	if err := a.store(ctx, u, name, rows); err != nil {
		u.Abort()
		return "", err
	}
	if err := u.Commit(); err != nil {
		return "", err
	}

	a.log.Info("archived",
		zap.String("file", name),
		zap.String("upload", u.ID),
		zap.Int("rows", stats.Converted),
		zap.Int("filtered", stats.Filtered),
		zap.String("measured", benchunit.Scale(stats.Seconds)+"sec"),
	)
	if n := stats.Skipped(); n > 0 {
		a.log.Warn("skipped BM_matmul results",
			zap.String("file", name),
			zap.Int("skipped", n),
			zap.Int("malformed", stats.Malformed),
			zap.Int("errored", stats.Errored),
			zap.Error(stats.Err),
		)
	}
	return u.ID, nil
}

// store inserts rows into u and copies the input and its CSV to a.fs.
func (a *archiver) store(ctx context.Context, u *db.Upload, name string, rows []gemm.Row) error {
	for _, r := range rows {
		if err := u.InsertRow(ctx, r); err != nil {
			return err
		}
	}
	if a.fs == nil {
		return nil
	}

	base := filepath.Base(name)
	dest := path.Join(a.prefix, "uploads", u.ID, base)
	meta := map[string]string{
		"uploadid": u.ID,
		"source":   base,
	}

	err := a.writeFile(ctx, dest, meta, func(w io.Writer) error {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		return err
	}
	return a.writeFile(ctx, dest+".csv", meta, func(w io.Writer) error {
		return gemm.NewWriter(w).WriteAll(rows)
	})
}

// writeFile creates name in a.fs and fills it with write. A failed
// write discards the file.
func (a *archiver) writeFile(ctx context.Context, name string, meta map[string]string, write func(io.Writer) error) error {
	w, err := a.fs.NewWriter(ctx, name, meta)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.CloseWithError(err)
		return err
	}
	return w.Close()
}
