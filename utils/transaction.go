package utils

import (
	"database/sql"
	"fmt"
)

// WithTransaction runs fn inside a database transaction, committing on
// success and rolling back on error or panic.
func WithTransaction(db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
			return
		}
		err = tx.Commit()
	}()

	return fn(tx)
}
