// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db archives converted GEMM benchmark rows in a SQL
// database.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Integer-Ctrl/machine-learning-compilers/gemm"
)

// DB is a high-level interface to an archive database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	lastUpload   *sql.Stmt
	insertUpload *sql.Stmt
	insertRow    *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a
// connection to driverName. This is used by the sqlite3 package to
// configure its connection pool. It must be called from an init
// function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID VARCHAR(20) PRIMARY KEY,
	Day VARCHAR(8),
	Seq BIGINT UNSIGNED,
	Source VARCHAR(1024),
	HostName VARCHAR(255),
	Executable VARCHAR(1024),
	Date VARCHAR(64),
	NumCPUs INTEGER,
	BuildType VARCHAR(32)
{{if not .sqlite3}}
	, Index (Day, Seq)
{{end}}
);
CREATE TABLE IF NOT EXISTS GemmRows (
	UploadID VARCHAR(20),
	RowID BIGINT UNSIGNED,
	M BIGINT,
	N BIGINT,
	K BIGINT,
	BrSize BIGINT,
	TransA TINYINT,
	TransB TINYINT,
	TransC TINYINT,
	LdA BIGINT,
	LdB BIGINT,
	LdC BIGINT,
	BrStrideA BIGINT,
	BrStrideB BIGINT,
	NumReps BIGINT,
	Seconds DOUBLE,
	PRIMARY KEY (UploadID, RowID),
{{if not .sqlite3}}
	Index (M, N, K),
{{end}}
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS GemmRowsShape ON GemmRows(M, N, K);
CREATE INDEX IF NOT EXISTS UploadsDaySeq ON Uploads(Day, Seq);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.lastUpload, err = db.sql.Prepare("SELECT Seq FROM Uploads WHERE Day = ? ORDER BY Seq DESC LIMIT 1")
	if err != nil {
		return err
	}
	db.insertUpload, err = db.sql.Prepare("INSERT INTO Uploads(UploadID, Day, Seq, Source, HostName, Executable, Date, NumCPUs, BuildType) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.insertRow, err = db.sql.Prepare("INSERT INTO GemmRows(UploadID, RowID, M, N, K, BrSize, TransA, TransB, TransC, LdA, LdB, LdC, BrStrideA, BrStrideB, NumReps, Seconds) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	return nil
}

// now is a hook for testing
var now = time.Now

// Metadata describes where an upload's rows came from.
type Metadata struct {
	// Source is the name of the converted input file.
	Source string

	// The remaining fields come from the input's benchmark context.
	HostName   string
	Executable string
	Date       string
	NumCPUs    int
	BuildType  string
}

// An Upload is a set of rows converted from one input. All rows
// written to an Upload share its ID, and none of them are visible
// until Commit.
type Upload struct {
	// ID is the upload ID, of the form YYYYMMDD.N, where N counts
	// the uploads of that UTC day starting at 1.
	ID string

	// rowid is the index of the next row to insert.
	rowid int64
	// db is the underlying database that this upload is going to.
	db *DB
	// tx is the transaction used by the upload.
	tx *sql.Tx
}

// NewUpload returns an upload for storing new rows.
func (db *DB) NewUpload(ctx context.Context, meta Metadata) (*Upload, error) {
	day := now().UTC().Format("20060102")

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	var seq int64
	err = tx.StmtContext(ctx, db.lastUpload).QueryRowContext(ctx, day).Scan(&seq)
	switch err {
	case sql.ErrNoRows, nil:
	default:
		return nil, err
	}
	seq++

	id := fmt.Sprintf("%s.%d", day, seq)
	if _, err := tx.StmtContext(ctx, db.insertUpload).ExecContext(ctx, id, day, seq, meta.Source, meta.HostName, meta.Executable, meta.Date, meta.NumCPUs, meta.BuildType); err != nil {
		return nil, err
	}

	u := &Upload{ID: id, db: db, tx: tx}
	tx = nil
	return u, nil
}

// InsertRow inserts a single row in an existing upload.
func (u *Upload) InsertRow(ctx context.Context, r gemm.Row) error {
	if _, err := u.tx.StmtContext(ctx, u.db.insertRow).ExecContext(ctx,
		u.ID, u.rowid,
		r.M, r.N, r.K,
		r.BatchSize,
		r.TransA, r.TransB, r.TransC,
		r.LdA, r.LdB, r.LdC,
		r.BatchStrideA, r.BatchStrideB,
		r.Reps,
		r.Seconds,
	); err != nil {
		return err
	}
	u.rowid++
	return nil
}

// Commit finishes processing the upload.
func (u *Upload) Commit() error {
	return u.tx.Commit()
}

// Abort cleans up resources associated with the upload.
// It does not attempt to clean up partial database state.
func (u *Upload) Abort() error {
	return u.tx.Rollback()
}

// Rows returns the rows of the upload with the given ID, in the order
// they were inserted. It returns no rows for an unknown ID.
func (db *DB) Rows(ctx context.Context, uploadID string) ([]gemm.Row, error) {
	rows, err := db.sql.QueryContext(ctx, "SELECT M, N, K, BrSize, TransA, TransB, TransC, LdA, LdB, LdC, BrStrideA, BrStrideB, NumReps, Seconds FROM GemmRows WHERE UploadID = ? ORDER BY RowID", uploadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []gemm.Row
	for rows.Next() {
		var r gemm.Row
		if err := rows.Scan(
			&r.M, &r.N, &r.K,
			&r.BatchSize,
			&r.TransA, &r.TransB, &r.TransC,
			&r.LdA, &r.LdB, &r.LdC,
			&r.BatchStrideA, &r.BatchStrideB,
			&r.Reps,
			&r.Seconds,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Upload returns the metadata recorded for the upload with the given
// ID. It returns sql.ErrNoRows if there is no such upload.
func (db *DB) Upload(ctx context.Context, uploadID string) (Metadata, error) {
	var m Metadata
	err := db.sql.QueryRowContext(ctx, "SELECT Source, HostName, Executable, Date, NumCPUs, BuildType FROM Uploads WHERE UploadID = ?", uploadID).
		Scan(&m.Source, &m.HostName, &m.Executable, &m.Date, &m.NumCPUs, &m.BuildType)
	return m, err
}

// CountUploads returns the number of uploads in the database.
func (db *DB) CountUploads() (int, error) {
	var uploads int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Uploads").Scan(&uploads)
	return uploads, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	for _, stmt := range []*sql.Stmt{db.lastUpload, db.insertUpload, db.insertRow} {
		if err := stmt.Close(); err != nil {
			return err
		}
	}
	return db.sql.Close()
}
