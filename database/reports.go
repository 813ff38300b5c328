package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"foodintel/models"
)

// ErrReportNotFound is returned when no report has the requested id.
var ErrReportNotFound = errors.New("report not found")

// ReportStore archives generated reports in Postgres.
type ReportStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewReportStore wraps a pool.
func NewReportStore(pool *pgxpool.Pool) *ReportStore {
	return &ReportStore{pool: pool, now: time.Now}
}

// Save stores r, assigning an id and creation time when they are unset.
func (s *ReportStore) Save(ctx context.Context, r *models.Report) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now().UTC()
	}

	query := `
		INSERT INTO reports (id, kind, title, keyword, model, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := s.pool.Exec(ctx, query, r.ID, string(r.Kind), r.Title, r.Keyword, r.Model, r.Body, r.CreatedAt); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// Get loads one report.
func (s *ReportStore) Get(ctx context.Context, id string) (*models.Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrReportNotFound
	}

	query := `
		SELECT id, kind, title, keyword, model, body, created_at
		FROM reports
		WHERE id = $1
	`
	var r models.Report
	var kind string
	err := s.pool.QueryRow(ctx, query, id).Scan(&r.ID, &kind, &r.Title, &r.Keyword, &r.Model, &r.Body, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	r.Kind = models.ReportKind(kind)
	return &r, nil
}

// List returns the newest reports first.
func (s *ReportStore) List(ctx context.Context, limit int) ([]models.Report, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, kind, title, keyword, model, body, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := make([]models.Report, 0)
	for rows.Next() {
		var r models.Report
		var kind string
		if err := rows.Scan(&r.ID, &kind, &r.Title, &r.Keyword, &r.Model, &r.Body, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		r.Kind = models.ReportKind(kind)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
