package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/project-canary/backend/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// EnsureSchema creates the tables on first start so the service can
// run against an empty database.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cases (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			case_id TEXT NOT NULL UNIQUE,
			customer_name TEXT NOT NULL,
			description TEXT NOT NULL,
			priority TEXT NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL,
			product TEXT NOT NULL,
			module TEXT NOT NULL DEFAULT '',
			sub_module TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			geography TEXT NOT NULL DEFAULT '',
			jira_id TEXT NOT NULL DEFAULT '',
			snow_id TEXT NOT NULL DEFAULT '',
			comments TEXT[] NOT NULL DEFAULT '{}',
			created_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS tracks (
			track_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			track_name TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS track_cases (
			track_id UUID NOT NULL REFERENCES tracks(track_id) ON DELETE CASCADE,
			case_id TEXT NOT NULL REFERENCES cases(case_id),
			PRIMARY KEY (track_id, case_id)
		);
	`)
	return err
}

const caseColumns = `id, case_id, customer_name, description, priority, type, status, product,
	module, sub_module, category, geography, jira_id, snow_id, comments, created_date, updated_date`

func scanCase(row pgx.Row) (models.Case, error) {
	var c models.Case
	err := row.Scan(&c.ID, &c.CaseID, &c.CustomerName, &c.Description, &c.Priority, &c.Type,
		&c.Status, &c.Product, &c.Module, &c.SubModule, &c.Category, &c.Geography,
		&c.JiraID, &c.SnowID, &c.Comments, &c.CreatedDate, &c.UpdatedDate)
	return c, err
}

// ListCases applies the set filter fields server-side. Free-text fields
// match as case-insensitive substrings, identifier and classification
// fields match exactly; absent fields add no condition.
func (s *Store) ListCases(ctx context.Context, f models.CaseFilters) ([]models.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases`
	var args []any
	var wheres []string
	if f.CustomerName != "" {
		args = append(args, "%"+f.CustomerName+"%")
		wheres = append(wheres, fmt.Sprintf("customer_name ILIKE $%d", len(args)))
	}
	if f.CaseID != "" {
		args = append(args, f.CaseID)
		wheres = append(wheres, fmt.Sprintf("case_id = $%d", len(args)))
	}
	if f.Product != "" {
		args = append(args, f.Product)
		wheres = append(wheres, fmt.Sprintf("product = $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		wheres = append(wheres, fmt.Sprintf("priority = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		wheres = append(wheres, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY created_date DESC"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetCase(ctx context.Context, caseID string) (models.Case, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE case_id = $1`, caseID)
	return scanCase(row)
}

func (s *Store) CountCases(ctx context.Context) (int, error) {
	var total int
	err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM cases`).Scan(&total)
	return total, err
}

func (s *Store) InsertCase(ctx context.Context, c models.Case) (models.Case, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO cases (case_id, customer_name, description, priority, type, status, product,
			module, sub_module, category, geography, jira_id, snow_id, comments, created_date, updated_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING `+caseColumns,
		c.CaseID, c.CustomerName, c.Description, c.Priority, c.Type, c.Status, c.Product,
		c.Module, c.SubModule, c.Category, c.Geography, c.JiraID, c.SnowID, c.Comments,
		c.CreatedDate, c.UpdatedDate)
	return scanCase(row)
}

func (s *Store) InsertCases(ctx context.Context, cases []models.Case) (int64, error) {
	rows := make([][]any, 0, len(cases))
	for _, c := range cases {
		comments := c.Comments
		if comments == nil {
			comments = []string{}
		}
		rows = append(rows, []any{c.CaseID, c.CustomerName, c.Description, c.Priority, c.Type,
			c.Status, c.Product, c.Module, c.SubModule, c.Category, c.Geography,
			c.JiraID, c.SnowID, comments, c.CreatedDate, c.UpdatedDate})
	}
	return s.Pool.CopyFrom(ctx, pgx.Identifier{"cases"},
		[]string{"case_id", "customer_name", "description", "priority", "type", "status", "product",
			"module", "sub_module", "category", "geography", "jira_id", "snow_id", "comments",
			"created_date", "updated_date"},
		pgx.CopyFromRows(rows))
}

// CaseUpdate carries the fields of a partial edit; nil fields are left
// unchanged.
type CaseUpdate struct {
	CustomerName *string
	Description  *string
	Priority     *string
	Type         *string
	Status       *string
	Product      *string
	Module       *string
	SubModule    *string
	Category     *string
	Geography    *string
	JiraID       *string
	SnowID       *string
}

func (s *Store) UpdateCase(ctx context.Context, caseID string, u CaseUpdate) (models.Case, error) {
	var sets []string
	var args []any
	add := func(column string, v *string) {
		if v == nil {
			return
		}
		args = append(args, *v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("customer_name", u.CustomerName)
	add("description", u.Description)
	add("priority", u.Priority)
	add("type", u.Type)
	add("status", u.Status)
	add("product", u.Product)
	add("module", u.Module)
	add("sub_module", u.SubModule)
	add("category", u.Category)
	add("geography", u.Geography)
	add("jira_id", u.JiraID)
	add("snow_id", u.SnowID)

	if len(sets) == 0 {
		return s.GetCase(ctx, caseID)
	}
	sets = append(sets, "updated_date = NOW()")
	args = append(args, caseID)
	query := fmt.Sprintf(`UPDATE cases SET %s WHERE case_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), caseColumns)
	return scanCase(s.Pool.QueryRow(ctx, query, args...))
}

func (s *Store) AppendComment(ctx context.Context, caseID, comment string) (models.Case, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE cases SET comments = array_append(comments, $1), updated_date = NOW()
		WHERE case_id = $2
		RETURNING `+caseColumns, comment, caseID)
	return scanCase(row)
}

func (s *Store) ListProducts(ctx context.Context) ([]string, error) {
	rows, err := s.Pool.Query(ctx, `SELECT DISTINCT product FROM cases ORDER BY product`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) ListTracks(ctx context.Context) ([]models.Track, error) {
	rows, err := s.Pool.Query(ctx, `SELECT track_id, track_name, created_at FROM tracks ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Track
	for rows.Next() {
		var t models.Track
		if err := rows.Scan(&t.TrackID, &t.TrackName, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) CreateTrack(ctx context.Context, name string) (models.Track, error) {
	var t models.Track
	err := s.Pool.QueryRow(ctx,
		`INSERT INTO tracks (track_name) VALUES ($1) RETURNING track_id, track_name, created_at`,
		name).Scan(&t.TrackID, &t.TrackName, &t.CreatedAt)
	return t, err
}

func (s *Store) DeleteTrack(ctx context.Context, trackID string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM tracks WHERE track_id = $1`, trackID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListTrackCases(ctx context.Context, trackID string) ([]string, error) {
	var exists bool
	if err := s.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tracks WHERE track_id = $1)`, trackID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, pgx.ErrNoRows
	}

	rows, err := s.Pool.Query(ctx, `SELECT case_id FROM track_cases WHERE track_id = $1 ORDER BY case_id`, trackID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Store) AddCaseToTrack(ctx context.Context, trackID, caseID string) error {
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO track_cases (track_id, case_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		trackID, caseID)
	return err
}
