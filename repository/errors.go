package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrReferenced is returned when deleting a record that an ownership link
	// still points at.
	ErrReferenced = errors.New("record is referenced by an ownership link")

	// ErrMultipleRecords is returned by an upsert whose key matches more than
	// one row.
	ErrMultipleRecords = errors.New("upsert key matches more than one record")
)

// isForeignKeyViolation reports whether err is a SQLite foreign key failure.
// RESTRICT actions fire as SQLITE_CONSTRAINT_TRIGGER rather than
// SQLITE_CONSTRAINT_FOREIGNKEY, so both extended codes are accepted.
func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return false
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintTrigger:
		return true
	}
	return strings.Contains(sqliteErr.Error(), "FOREIGN KEY constraint failed")
}

// translateDeleteError maps SQLite foreign key failures onto ErrReferenced.
func translateDeleteError(err error, what string) error {
	if isForeignKeyViolation(err) {
		return fmt.Errorf("failed to delete %s: %w", what, ErrReferenced)
	}
	return fmt.Errorf("failed to delete %s: %w", what, err)
}
