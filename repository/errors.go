package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation is returned when a uniqueness invariant would be
	// violated (duplicate email, duplicate (student, course) pair).
	ErrConstraintViolation = errors.New("uniqueness constraint violated")

	// ErrPreconditionFailed is returned when a conditional update finds that
	// its precondition no longer holds (e.g. balance < amount). The update is
	// not applied in that case.
	ErrPreconditionFailed = errors.New("precondition failed")
)

// translateDBError maps driver and GORM errors onto the repository error set.
// Unique-violation detection covers postgres, mysql and sqlite since all three
// are supported connection drivers.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConstraintViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConstraintViolation
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint failed") || // sqlite
		strings.Contains(msg, "duplicate entry") || // mysql
		strings.Contains(msg, "duplicate key value") { // postgres
		return ErrConstraintViolation
	}

	return err
}
