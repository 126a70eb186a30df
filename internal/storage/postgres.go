package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nikhilbhutani/memocast/internal/models"
)

// PostgresIndex persists memo metadata so that it survives restarts.
type PostgresIndex struct {
	db *pgxpool.Pool
}

func NewPostgresIndex(db *pgxpool.Pool) *PostgresIndex {
	return &PostgresIndex{db: db}
}

const memoColumns = `id, text, voice_id, voice_name, filename, url, length_bytes, format, created_at`

func (p *PostgresIndex) Put(ctx context.Context, memo *models.Memo) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO memos (`+memoColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
		   text = EXCLUDED.text, voice_id = EXCLUDED.voice_id, voice_name = EXCLUDED.voice_name,
		   filename = EXCLUDED.filename, url = EXCLUDED.url, length_bytes = EXCLUDED.length_bytes,
		   format = EXCLUDED.format`,
		memo.ID, memo.Text, memo.Voice.ID, memo.Voice.Name, memo.Audio.Filename,
		memo.Audio.URL, memo.Audio.Length, memo.Audio.Format, memo.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert memo: %w", err)
	}
	return nil
}

func (p *PostgresIndex) Get(ctx context.Context, id string) (*models.Memo, error) {
	row := p.db.QueryRow(ctx, `SELECT `+memoColumns+` FROM memos WHERE id = $1`, id)
	memo, err := scanMemo(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, memoNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get memo: %w", err)
	}
	return memo, nil
}

func (p *PostgresIndex) List(ctx context.Context, limit, offset int) ([]models.Memo, int, error) {
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := p.db.QueryRow(ctx, `SELECT count(*) FROM memos`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count memos: %w", err)
	}

	rows, err := p.db.Query(ctx,
		`SELECT `+memoColumns+` FROM memos ORDER BY created_at DESC, seq DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list memos: %w", err)
	}
	defer rows.Close()

	memos := []models.Memo{}
	for rows.Next() {
		m, err := scanMemo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan memo: %w", err)
		}
		memos = append(memos, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate memos: %w", err)
	}
	return memos, total, nil
}

func (p *PostgresIndex) Remove(ctx context.Context, id string) (*models.Memo, error) {
	row := p.db.QueryRow(ctx, `DELETE FROM memos WHERE id = $1 RETURNING `+memoColumns, id)
	memo, err := scanMemo(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, memoNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("delete memo: %w", err)
	}
	return memo, nil
}

func scanMemo(row pgx.Row) (*models.Memo, error) {
	var m models.Memo
	err := row.Scan(&m.ID, &m.Text, &m.Voice.ID, &m.Voice.Name, &m.Audio.Filename,
		&m.Audio.URL, &m.Audio.Length, &m.Audio.Format, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
