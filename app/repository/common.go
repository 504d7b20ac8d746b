package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func nullableStringValue(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func stringPtrFromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// decimalFromColumn parses a DECIMAL column carried by the driver as a
// raw byte string.
func decimalFromColumn(raw []byte) (decimal.Decimal, error) {
	return decimal.NewFromString(string(raw))
}
