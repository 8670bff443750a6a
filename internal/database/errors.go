package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// SQLiteCode extracts the primary SQLite result code from err, if any.
func SQLiteCode(err error) (sqlite3.ErrNo, bool) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code, true
	}
	return 0, false
}

// IsConstraint reports whether err is a constraint violation, which includes
// RAISE(ABORT) from the policy lock triggers.
func IsConstraint(err error) bool {
	code, ok := SQLiteCode(err)
	return ok && code == sqlite3.ErrConstraint
}

// IsReadOnly reports whether err came from writing through a mode=ro handle.
func IsReadOnly(err error) bool {
	code, ok := SQLiteCode(err)
	return ok && code == sqlite3.ErrReadonly
}

// ErrorAttrs returns slog key/value pairs describing a storage error.
func ErrorAttrs(err error) []any {
	attrs := []any{"error", err}
	if code, ok := SQLiteCode(err); ok {
		attrs = append(attrs, "sqlite_code", int(code))
	}
	return attrs
}
