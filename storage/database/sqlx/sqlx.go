// Package sqlxrepos implements the domain repositories on top of PostgreSQL.
package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/alfurqan/portal/core"
)

// Postgres error codes
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeInvalidTextRepr     = "22P02" // e.g. malformed UUID
)

type base struct {
	db *sqlx.DB
}

// getExec returns the executor provided by the service (usually a *sqlx.Tx), or the repository pool.
func (b base) getExec(svcExec []core.DBExecutor) sqlx.ExtContext {
	if len(svcExec) > 0 {
		if ext, ok := svcExec[0].(sqlx.ExtContext); ok {
			return ext
		}
	}
	return b.db
}

func pqCode(err error) string {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		return string(pqErr.Code)
	}
	return ""
}

// namedGet runs a named query returning a single row into dest.
func (b base) namedGet(ctx context.Context, ext sqlx.ExtContext, dest interface{}, q string, arg interface{}) error {
	q, args, err := sqlx.Named(q, arg)
	if err != nil {
		return errors.Wrap(err, "binding named query")
	}
	return sqlx.GetContext(ctx, ext, dest, ext.Rebind(q), args...)
}

// trapNotFound maps "no rows" and malformed IDs to notFound.
func trapNotFound(err error, notFound error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows || pqCode(err) == codeInvalidTextRepr {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// trapFKErr turns a foreign key violation into a ValidationError on the field mapped to the violated constraint.
func trapFKErr(err error, constraintFields map[string]string, msg string) error {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok {
		switch string(pqErr.Code) {
		case codeForeignKeyViolation, codeInvalidTextRepr:
			fld, ok := constraintFields[pqErr.Constraint]
			if !ok {
				fld = "id"
			}
			return core.NewValidationError(err, core.FieldError{Field: fld, Error: fld + " does not reference an existing record"})
		}
	}
	return errors.Wrap(err, msg)
}

// deleteByID deletes a row by ID and returns notFound when nothing matched.
func deleteByID(ctx context.Context, exec sqlx.ExtContext, table, id string, notFound error) error {
	res, err := exec.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return trapNotFound(err, notFound, "deleting from "+table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting from "+table)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

type transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) core.Transactor {
	return &transactor{db: db}
}

func (t transactor) WithinTx(ctx context.Context, fn func(exec core.DBExecutor) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rolling back (%v)", rbErr)
		}
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func itoa(i int) string { return strconv.Itoa(i) }
