package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Sanket93s/gst-billing-system/internal/domain"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation reports a unique constraint violation (23505).
func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

// isForeignKeyViolation reports a foreign key violation (23503).
func isForeignKeyViolation(err error) bool { return pgCode(err) == codeForeignKeyViolation }

// mapWriteError translates constraint violations into domain errors and
// wraps anything else with op.
func mapWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return domain.ErrConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}
