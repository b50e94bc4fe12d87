package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// InsertBatchSize bounds the number of rows sent in one multi-row INSERT.
const InsertBatchSize = 1000

func New(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Batches splits n items into [start, end) windows of at most size items.
func Batches(n, size int) [][2]int {
	if n <= 0 || size <= 0 {
		return nil
	}

	out := make([][2]int, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		out = append(out, [2]int{start, min(start+size, n)})
	}

	return out
}

// Placeholders renders "($1, $2), ($3, $4)" style value lists for a
// multi-row INSERT of rows rows with cols columns each.
func Placeholders(rows, cols int) string {
	buf := make([]byte, 0, rows*cols*5)

	n := 1

	for r := range rows {
		if r > 0 {
			buf = append(buf, ", "...)
		}

		buf = append(buf, '(')

		for c := range cols {
			if c > 0 {
				buf = append(buf, ", "...)
			}

			buf = fmt.Appendf(buf, "$%d", n)
			n++
		}

		buf = append(buf, ')')
	}

	return string(buf)
}
