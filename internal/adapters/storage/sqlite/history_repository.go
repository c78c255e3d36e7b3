// Package sqlite disponibiliza o histórico de análises persistido em SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id          TEXT PRIMARY KEY,
	client_id   TEXT NOT NULL,
	url         TEXT NOT NULL,
	video_id    TEXT NOT NULL,
	thumbnail   TEXT NOT NULL,
	insights    TEXT NOT NULL,
	analyzed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_client ON analyses (client_id, analyzed_at DESC);
`

type HistoryRepository struct {
	db *sql.DB
}

var _ ports.HistoryRepository = (*HistoryRepository)(nil)

// Open abre (ou cria) o banco em path. Use ":memory:" em testes.
func Open(ctx context.Context, path string) (*HistoryRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Uma única conexão: ":memory:" é por conexão e o SQLite serializa escritas.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return &HistoryRepository{db: db}, nil
}

func (r *HistoryRepository) Close() error {
	return r.db.Close()
}

func (r *HistoryRepository) Save(ctx context.Context, record domain.AnalysisRecord) error {
	insights, err := json.Marshal(record.Insights)
	if err != nil {
		return fmt.Errorf("encode insights: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO analyses (id, client_id, url, video_id, thumbnail, insights, analyzed_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.ClientID, record.URL, string(record.VideoID), record.Thumbnail, string(insights), record.AnalyzedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert analysis %s: %w", record.ID, err)
	}
	return nil
}

// List retorna as análises mais recentes do cliente, da mais nova para a mais antiga.
func (r *HistoryRepository) List(ctx context.Context, clientID string, limit int) ([]domain.AnalysisRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, client_id, url, video_id, thumbnail, insights, analyzed_at
		 FROM analyses WHERE client_id = ? ORDER BY analyzed_at DESC, rowid DESC LIMIT ?`,
		clientID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	records := make([]domain.AnalysisRecord, 0)
	for rows.Next() {
		var (
			record     domain.AnalysisRecord
			videoID    string
			insights   string
			analyzedAt int64
		)
		if err := rows.Scan(&record.ID, &record.ClientID, &record.URL, &videoID, &record.Thumbnail, &insights, &analyzedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		if err := json.Unmarshal([]byte(insights), &record.Insights); err != nil {
			return nil, fmt.Errorf("decode insights for %s: %w", record.ID, err)
		}
		record.VideoID = domain.VideoID(videoID)
		record.AnalyzedAt = time.UnixMilli(analyzedAt).UTC()
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *HistoryRepository) Delete(ctx context.Context, clientID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ? AND client_id = ?`, id, clientID)
	if err != nil {
		return fmt.Errorf("delete analysis %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete analysis %s: %w", id, err)
	}
	if affected == 0 {
		return domain.ErrAnalysisNotFound
	}
	return nil
}
