package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// TimeOperation executes an operation and logs its execution time
func TimeOperation(ctx context.Context, name string, operation func() error) error {
	start := time.Now()
	err := operation()
	elapsed := time.Since(start)
	slog.Log(ctx, slog.LevelDebug, fmt.Sprintf("Operation %s took %s", name, elapsed))
	return err
}

// WithTransaction handles a database transaction and executes the given
// operation. The error is a named return so the deferred commit can
// surface its failure to the caller.
func WithTransaction(db *sql.DB, ctx context.Context, operation func(*sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p) // re-throw panic after Rollback
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Log(ctx, slog.LevelError, "Error while rolling back transaction", "error", rbErr)
			}
		} else {
			err = tx.Commit()
		}
	}()

	err = operation(tx)
	return err
}

func GenerateRandomString(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
