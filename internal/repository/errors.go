package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint (users.email) is violated.
	ErrDuplicate = errors.New("duplicate record")
	// ErrForeignKey is returned when a write would leave a dangling owner reference.
	ErrForeignKey = errors.New("foreign key violation")
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// sqliteForeignKeyMessage is reported for every SQLite FK failure, including
// ON DELETE RESTRICT, which gorm's sqlite dialector leaves untranslated.
const sqliteForeignKeyMessage = "FOREIGN KEY constraint failed"

// translate maps driver and gorm errors onto the repository sentinels.
// Unknown errors are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgForeignKeyViolation:
			return ErrForeignKey
		}
	}

	if strings.Contains(err.Error(), sqliteForeignKeyMessage) {
		return ErrForeignKey
	}

	return err
}
