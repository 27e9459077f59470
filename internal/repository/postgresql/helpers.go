package postgresql

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	dateLayout        = "2006-01-02"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// dateParam renders a calendar date for a ::date cast so the session time zone cannot shift it.
func dateParam(t time.Time) string {
	return t.Format(dateLayout)
}
