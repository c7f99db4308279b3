package persist

import (
	"context"
	"fmt"
	"time"
)

// LevelResult is one finished level attempt.
type LevelResult struct {
	LevelIndex int
	LevelName  string
	Outcome    string // "cleared" or "died"
	Ticks      uint64
	Elapsed    time.Duration
	Kills      int
	Health     int
	RecordedAt time.Time
}

type LevelResultRepo struct {
	db *DB
}

func NewLevelResultRepo(db *DB) *LevelResultRepo {
	return &LevelResultRepo{db: db}
}

// InsertBatch writes results in a single transaction.
func (r *LevelResultRepo) InsertBatch(ctx context.Context, results []LevelResult) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("level_results begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, res := range results {
		if _, err := tx.Exec(ctx,
			`INSERT INTO level_results (level_index, level_name, outcome, ticks, elapsed_ms, kills, health, recorded_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			res.LevelIndex, res.LevelName, res.Outcome, int64(res.Ticks),
			res.Elapsed.Milliseconds(), res.Kills, res.Health, res.RecordedAt,
		); err != nil {
			return fmt.Errorf("level_results insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Recent returns the latest results, newest first.
func (r *LevelResultRepo) Recent(ctx context.Context, limit int) ([]LevelResult, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT level_index, level_name, outcome, ticks, elapsed_ms, kills, health, recorded_at
		 FROM level_results ORDER BY recorded_at DESC, id DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("level_results query: %w", err)
	}
	defer rows.Close()

	var out []LevelResult
	for rows.Next() {
		var res LevelResult
		var ticks, elapsedMs int64
		if err := rows.Scan(&res.LevelIndex, &res.LevelName, &res.Outcome, &ticks,
			&elapsedMs, &res.Kills, &res.Health, &res.RecordedAt); err != nil {
			return nil, fmt.Errorf("level_results scan: %w", err)
		}
		res.Ticks = uint64(ticks)
		res.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		out = append(out, res)
	}
	return out, rows.Err()
}
