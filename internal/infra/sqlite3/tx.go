package sqlite3

import (
	"context"
	"database/sql"
	"fmt"
)

type (
	TxFunc               = func(*sql.Tx) (any, error)
	TxSessionFactoryFunc = func() (*sql.DB, error)
	TxManager            = func(ctx context.Context, fn TxFunc) (any, error)
	TxOptions            = *sql.TxOptions
)

// WithTx runs fn inside one transaction and hands back its result once the
// transaction is committed.
func WithTx(starterFn TxSessionFactoryFunc, txOpts TxOptions) TxManager {
	return func(ctx context.Context, fn TxFunc) (any, error) {
		db, err := starterFn()
		if err != nil {
			return nil, fmt.Errorf("db connection error: %w", err)
		}

		tx, err := db.BeginTx(ctx, txOpts)
		if err != nil {
			return nil, fmt.Errorf("db begin transaction: %w", err)
		}
		defer func() {
			if p := recover(); p != nil {
				_ = tx.Rollback()
				panic(p)
			}
		}()

		result, err := fn(tx)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return nil, fmt.Errorf("db transaction error: %v, rollback error: %w", err, rbErr)
			}
			return nil, fmt.Errorf("db transaction error: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("db commit transaction: %w", err)
		}

		return result, nil
	}
}
