package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"sort"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/insuregenie/constants"
	"github.com/joseph-ayodele/insuregenie/internal/core/compliance"
)

// ValidationRecord is the latest stored validation of a document.
type ValidationRecord struct {
	Status constants.ValidationStatus
	Errors []string
	Time   time.Time
}

// Analysis is everything stored about one uploaded document.
type Analysis struct {
	DocumentID int64
	Filename   string
	UploadTime time.Time
	Fields     map[string]string
	Validation *ValidationRecord
	Compliance []compliance.Result
}

// DocumentRepository persists uploads and their analysis outcomes.
type DocumentRepository interface {
	SaveUpload(ctx context.Context, filename string) (int64, error)
	SaveMetadata(ctx context.Context, docID int64, fields map[string]string) error
	SaveValidation(ctx context.Context, docID int64, status constants.ValidationStatus, errs []string) error
	SaveCompliance(ctx context.Context, docID int64, results []compliance.Result) error
	ListAnalyses(ctx context.Context) ([]Analysis, error)
}

type documentRepository struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time
}

func NewDocumentRepository(db *DB, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *documentRepository) builder() *entsql.DialectBuilder {
	return entsql.Dialect(r.db.dialect)
}

func (r *documentRepository) conn() *sql.DB {
	return r.db.driver.DB()
}

func (r *documentRepository) SaveUpload(ctx context.Context, filename string) (int64, error) {
	ins := r.builder().Insert(documentsTable).
		Columns("filename", "upload_time").
		Values(filename, r.now())

	var id int64
	if r.db.dialect == dialect.Postgres {
		query, args := ins.Returning("id").Query()
		if err := r.conn().QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			r.logger.Error("failed to save upload", "filename", filename, "error", err)
			return 0, dbError("save upload", err)
		}
	} else {
		query, args := ins.Query()
		res, err := r.conn().ExecContext(ctx, query, args...)
		if err == nil {
			id, err = res.LastInsertId()
		}
		if err != nil {
			r.logger.Error("failed to save upload", "filename", filename, "error", err)
			return 0, dbError("save upload", err)
		}
	}
	r.logger.Debug("document saved", "doc_id", id, "filename", filename)
	return id, nil
}

// SaveMetadata stores one row per field, in key order.
func (r *documentRepository) SaveMetadata(ctx context.Context, docID int64, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ins := r.builder().Insert(metadataTable).Columns("doc_id", "field_name", "field_value")
	for _, k := range keys {
		ins.Values(docID, k, fields[k])
	}
	query, args := ins.Query()
	if _, err := r.conn().ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to save metadata", "doc_id", docID, "fields", len(fields), "error", err)
		return dbError("save metadata", err)
	}
	return nil
}

// SaveValidation stores errs newline-joined.
func (r *documentRepository) SaveValidation(ctx context.Context, docID int64, status constants.ValidationStatus, errs []string) error {
	query, args := r.builder().Insert(validationTable).
		Columns("doc_id", "status", "errors", "validation_time").
		Values(docID, string(status), strings.Join(errs, "\n"), r.now()).
		Query()
	if _, err := r.conn().ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to save validation", "doc_id", docID, "status", status, "error", err)
		return dbError("save validation", err)
	}
	return nil
}

func (r *documentRepository) SaveCompliance(ctx context.Context, docID int64, results []compliance.Result) error {
	if len(results) == 0 {
		return nil
	}
	ins := r.builder().Insert(complianceTable).Columns("doc_id", "check_name", "passed", "details", "position")
	for i, res := range results {
		ins.Values(docID, res.Check, res.Passed, res.Details, i)
	}
	query, args := ins.Query()
	if _, err := r.conn().ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("failed to save compliance", "doc_id", docID, "checks", len(results), "error", err)
		return dbError("save compliance", err)
	}
	return nil
}

// ListAnalyses returns every document in upload order with its metadata, its
// latest validation and its compliance checks.
func (r *documentRepository) ListAnalyses(ctx context.Context) ([]Analysis, error) {
	b := r.builder()
	var (
		out   []Analysis
		index = map[int64]int{}
	)

	query, args := b.Select("id", "filename", "upload_time").From(b.Table(documentsTable)).OrderBy("id").Query()
	err := r.each(ctx, query, args, func(rows *sql.Rows) error {
		var a Analysis
		if err := rows.Scan(&a.DocumentID, &a.Filename, &a.UploadTime); err != nil {
			return err
		}
		a.Fields = map[string]string{}
		index[a.DocumentID] = len(out)
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, r.listError(err)
	}

	query, args = b.Select("doc_id", "field_name", "field_value").From(b.Table(metadataTable)).OrderBy("id").Query()
	err = r.each(ctx, query, args, func(rows *sql.Rows) error {
		var (
			docID       int64
			name, value string
		)
		if err := rows.Scan(&docID, &name, &value); err != nil {
			return err
		}
		if i, ok := index[docID]; ok {
			out[i].Fields[name] = value
		}
		return nil
	})
	if err != nil {
		return nil, r.listError(err)
	}

	query, args = b.Select("doc_id", "status", "errors", "validation_time").From(b.Table(validationTable)).OrderBy("id").Query()
	err = r.each(ctx, query, args, func(rows *sql.Rows) error {
		var (
			docID int64
			rec   ValidationRecord
			errs  string
		)
		if err := rows.Scan(&docID, &rec.Status, &errs, &rec.Time); err != nil {
			return err
		}
		rec.Errors = splitErrors(errs)
		if i, ok := index[docID]; ok {
			out[i].Validation = &rec
		}
		return nil
	})
	if err != nil {
		return nil, r.listError(err)
	}

	query, args = b.Select("doc_id", "check_name", "passed", "details").From(b.Table(complianceTable)).OrderBy("doc_id", "position").Query()
	err = r.each(ctx, query, args, func(rows *sql.Rows) error {
		var (
			docID int64
			res   compliance.Result
		)
		if err := rows.Scan(&docID, &res.Check, &res.Passed, &res.Details); err != nil {
			return err
		}
		if i, ok := index[docID]; ok {
			out[i].Compliance = append(out[i].Compliance, res)
		}
		return nil
	})
	if err != nil {
		return nil, r.listError(err)
	}
	return out, nil
}

func (r *documentRepository) each(ctx context.Context, query string, args []any, fn func(*sql.Rows) error) error {
	rows, err := r.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			r.logger.Warn("rows close error", "error", cerr)
		}
	}()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *documentRepository) listError(err error) error {
	r.logger.Error("failed to list analyses", "error", err)
	return dbError("list analyses", err)
}

func splitErrors(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
