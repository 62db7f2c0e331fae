package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/diillson/revenue-forecast-go/internal/shared/types"
)

// wrapError classifies err as a database failure raised during op. Errors
// already classified are returned unchanged.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var dbErr *types.DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}
	return &types.DatabaseError{Op: op, Code: sqlState(err), Err: err}
}

func sqlState(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// errorFields extracts the Postgres diagnostics worth logging.
func errorFields(err error) map[string]any {
	fields := map[string]any{}

	var dbErr *types.DatabaseError
	if errors.As(err, &dbErr) {
		fields["db_op"] = dbErr.Op
	}

	chain := []string{}
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T", e))
	}
	fields["error_chain"] = chain

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		fields["pg_code"] = pgxErr.Code
		fields["pg_table"] = pgxErr.TableName
		fields["pg_detail"] = pgxErr.Detail
		fields["pg_message"] = pgxErr.Message
		return fields
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		fields["pg_code"] = string(pqErr.Code)
		fields["pg_table"] = pqErr.Table
		fields["pg_detail"] = pqErr.Detail
		fields["pg_message"] = pqErr.Message
	}

	return fields
}
