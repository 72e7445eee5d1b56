package postgres

import (
	"database/sql"
	"errors"
)

// isNotFound reports whether err means the row does not exist. Repositories
// translate it into their (value, false, nil) miss convention.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
