package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	ierr "github.com/upassistify/upassistify/internal/errors"
)

const uniqueViolation = "23505"

// wrapError maps driver errors onto the application error markers
func wrapError(err error, entity string, id string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ierr.WithError(err).
			WithHintf("%s not found", entity).
			WithReportableDetails(map[string]any{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return ierr.WithError(err).
			WithHintf("%s already exists", entity).
			WithReportableDetails(map[string]any{
				"constraint": pqErr.Constraint,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	return ierr.WithError(err).
		WithHintf("Failed to access %s", entity).
		Mark(ierr.ErrDatabase)
}

func limitOffset(limit, offset int, unlimited bool) (any, int) {
	if unlimited {
		return nil, offset
	}
	return limit, offset
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	return n > 0, nil
}

func requireAffected(result sql.Result, entity string, id string) error {
	ok, err := affected(result)
	if err != nil {
		return err
	}
	if !ok {
		return wrapError(sql.ErrNoRows, entity, id)
	}
	return nil
}
