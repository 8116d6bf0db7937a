package repository

import (
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
)

// ErrNotFound is returned when a filtered lookup, update or delete matches no row.
var ErrNotFound = errors.New("record not found")

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Postgres keeps microseconds; truncating keeps returned values equal to what a later read sees.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
