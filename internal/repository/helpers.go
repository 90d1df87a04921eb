package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/loadplan/internal/domain"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidClearTarget is returned for a staging clear target other
	// than global, plan or all.
	ErrInvalidClearTarget = errors.New("invalid clear target")
)

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// parseTimestamp reads an RFC3339 column; empty or malformed values yield
// the zero time.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// duplicateKind tells a clash on table's id column from one on its name.
func duplicateKind(err error, table string) error {
	if strings.Contains(err.Error(), table+".id") {
		return domain.ErrDuplicateID
	}
	return domain.ErrDuplicateName
}
