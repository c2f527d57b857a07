package repository

import (
	"errors"

	"pos-catalog/internal/infra"
	"pos-catalog/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
)

// wrapDBErr classifies a write error. Foreign-key violations on revision
// reference tables carry errs.ErrInvalidReference so callers can distinguish
// a bad (child, revision) pair from an infrastructure failure.
func wrapDBErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
		case pgErrCodeForeignKeyViolation:
			return errs.Mark(
				infra.WrapRepoErr(msg, err, infra.KindForeignKeyViolated),
				errs.ErrInvalidReference,
			)
		}
	}
	return errs.Mark(infra.WrapRepoErr(msg, err), errs.ErrDatabaseOperationFailed)
}

func markNotFound(msg string, err, sentinel error) error {
	return errs.Mark(infra.WrapRepoErr(msg, err, infra.KindNotFound), sentinel)
}
