package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/solutions-catalog/internal/platform/apierr"
)

const pgUniqueViolation = "23505"

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// storeErr maps a repository error onto the API taxonomy: missing rows are
// NotFound, uniqueness violations are Conflict and everything else is an
// internal failure with no retry.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apierr.Error
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apierr.NotFound("solution_not_found", "solution not found")
	case isDuplicateKey(err):
		return apierr.Conflict(err)
	default:
		return apierr.Internal("store_error", fmt.Errorf("%s: %w", op, err))
	}
}
