package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/scrapex/outreach-engine/internal/db"
	"github.com/scrapex/outreach-engine/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_job":    `INSERT INTO jobs (id, type, status, created_at) VALUES ($1, $2, $3, $4)`,
	"start_job":     `UPDATE jobs SET status = $1, started_at = $2 WHERE id = $3`,
	"complete_job":  `UPDATE jobs SET status = $1, result = $2, finished_at = $3 WHERE id = $4`,
	"fail_job":      `UPDATE jobs SET status = $1, error = $2, finished_at = $3 WHERE id = $4`,
	"get_job":       `SELECT id, type, status, result, error, created_at, started_at, finished_at FROM jobs WHERE id = $1`,
	"save_facility": `INSERT INTO facilities (url, name, record, scraped_at) VALUES ($1, $2, $3, $4) ON CONFLICT (url) DO UPDATE SET name = $2, record = $3, scraped_at = $4`,
	"save_analysis": `INSERT INTO analyses (url, facility, lead_score, urgency, analysis, analyzed_at) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (url) DO UPDATE SET facility = $2, lead_score = $3, urgency = $4, analysis = $5, analyzed_at = $6`,
	"get_analysis":  `SELECT analysis FROM analyses WHERE url = $1`,
	"save_call":     `INSERT INTO calls (id, facility_name, phone_number, status, record, created_at) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO UPDATE SET status = $4, record = $5`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need
// direct query access.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS jobs (
	id          TEXT PRIMARY KEY,
	type        TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'queued',
	result      JSONB,
	error       TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	started_at  TIMESTAMPTZ,
	finished_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS facilities (
	url        TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	record     JSONB NOT NULL,
	scraped_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
	url         TEXT PRIMARY KEY,
	facility    TEXT NOT NULL,
	lead_score  INTEGER NOT NULL,
	urgency     TEXT NOT NULL,
	analysis    JSONB NOT NULL,
	analyzed_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS calls (
	id            TEXT PRIMARY KEY,
	facility_name TEXT NOT NULL,
	phone_number  TEXT NOT NULL,
	status        TEXT NOT NULL,
	record        JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_type ON jobs(type);
CREATE INDEX IF NOT EXISTS idx_analyses_score ON analyses(lead_score DESC);
CREATE INDEX IF NOT EXISTS idx_calls_facility ON calls(facility_name);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, jobType model.JobType) (*model.Job, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO jobs (id, type, status, created_at) VALUES ($1, $2, $3, $4)`,
		id, string(jobType), string(model.JobStatusQueued), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert job")
	}

	return &model.Job{
		ID:        id,
		Type:      jobType,
		Status:    model.JobStatusQueued,
		CreatedAt: now,
	}, nil
}

func (s *PostgresStore) StartJob(ctx context.Context, jobID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, started_at = $2 WHERE id = $3`,
		string(model.JobStatusRunning), time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: start job %s", jobID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", jobID)
	}
	return nil
}

func (s *PostgresStore) CompleteJob(ctx context.Context, jobID string, result any) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal job result")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, result = $2, finished_at = $3 WHERE id = $4`,
		string(model.JobStatusCompleted), resultJSON, time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete job %s", jobID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", jobID)
	}
	return nil
}

func (s *PostgresStore) FailJob(ctx context.Context, jobID string, jobErr string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, error = $2, finished_at = $3 WHERE id = $4`,
		string(model.JobStatusFailed), jobErr, time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail job %s", jobID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("job not found: %s", jobID)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	var j model.Job
	var resultNull *[]byte
	var errNull *string

	err := s.pool.QueryRow(ctx,
		`SELECT id, type, status, result, error, created_at, started_at, finished_at FROM jobs WHERE id = $1`,
		jobID,
	).Scan(&j.ID, &j.Type, &j.Status, &resultNull, &errNull, &j.CreatedAt, &j.StartedAt, &j.FinishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrJobNotFound, "postgres: get job %s", jobID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get job %s", jobID)
	}

	if resultNull != nil {
		j.Result = json.RawMessage(*resultNull)
	}
	if errNull != nil {
		j.Error = *errNull
	}
	return &j, nil
}

func (s *PostgresStore) ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error) {
	query := `SELECT id, type, status, result, error, created_at, started_at, finished_at FROM jobs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(` AND type = $%d`, argIdx)
		args = append(args, string(filter.Type))
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list jobs")
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var j model.Job
		var resultNull *[]byte
		var errNull *string

		if err := rows.Scan(&j.ID, &j.Type, &j.Status, &resultNull, &errNull, &j.CreatedAt, &j.StartedAt, &j.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan job")
		}
		if resultNull != nil {
			j.Result = json.RawMessage(*resultNull)
		}
		if errNull != nil {
			j.Error = *errNull
		}
		jobs = append(jobs, j)
	}
	return jobs, eris.Wrap(rows.Err(), "postgres: list jobs iterate")
}

func (s *PostgresStore) SaveFacility(ctx context.Context, rec model.FacilityRecord) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal facility")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO facilities (url, name, record, scraped_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (url) DO UPDATE SET name = $2, record = $3, scraped_at = $4`,
		rec.URL, rec.Name, recordJSON, rec.ScrapedAt,
	)
	return eris.Wrap(err, "postgres: save facility")
}

func (s *PostgresStore) SaveAnalysis(ctx context.Context, analysis model.LeadAnalysis) error {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal analysis")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO analyses (url, facility, lead_score, urgency, analysis, analyzed_at) VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (url) DO UPDATE SET facility = $2, lead_score = $3, urgency = $4, analysis = $5, analyzed_at = $6`,
		analysis.URL, analysis.FacilityName, analysis.LeadScore, string(analysis.Urgency),
		analysisJSON, analysis.AnalyzedAt,
	)
	return eris.Wrap(err, "postgres: save analysis")
}

// SaveAnalyses bulk-upserts a ranked batch through a temp table and COPY.
func (s *PostgresStore) SaveAnalyses(ctx context.Context, analyses []model.LeadAnalysis) error {
	if len(analyses) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(analyses))
	for _, a := range analyses {
		analysisJSON, err := json.Marshal(a)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal analysis")
		}
		rows = append(rows, []any{
			a.URL, a.FacilityName, a.LeadScore, string(a.Urgency), analysisJSON, a.AnalyzedAt,
		})
	}

	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "analyses",
		Columns:      []string{"url", "facility", "lead_score", "urgency", "analysis", "analyzed_at"},
		ConflictKeys: []string{"url"},
	}, rows)
	return err
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, url string) (*model.LeadAnalysis, error) {
	var analysisJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT analysis FROM analyses WHERE url = $1`,
		url,
	).Scan(&analysisJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get analysis")
	}

	var analysis model.LeadAnalysis
	if err := json.Unmarshal(analysisJSON, &analysis); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal analysis")
	}
	return &analysis, nil
}

func (s *PostgresStore) ListAnalyses(ctx context.Context, limit int) ([]model.LeadAnalysis, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT analysis FROM analyses ORDER BY lead_score DESC, analyzed_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list analyses")
	}
	defer rows.Close()

	var analyses []model.LeadAnalysis
	for rows.Next() {
		var analysisJSON []byte
		if err := rows.Scan(&analysisJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan analysis")
		}
		var a model.LeadAnalysis
		if err := json.Unmarshal(analysisJSON, &a); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal analysis")
		}
		analyses = append(analyses, a)
	}
	return analyses, eris.Wrap(rows.Err(), "postgres: list analyses iterate")
}

func (s *PostgresStore) SaveCall(ctx context.Context, rec model.CallRecord) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal call")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO calls (id, facility_name, phone_number, status, record, created_at) VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET status = $4, record = $5`,
		rec.ID, rec.FacilityName, rec.PhoneNumber, string(rec.Status), recordJSON, rec.CreatedAt,
	)
	return eris.Wrap(err, "postgres: save call")
}

func (s *PostgresStore) ListCalls(ctx context.Context, facilityName string) ([]model.CallRecord, error) {
	query := `SELECT record FROM calls WHERE true`
	args := []any{}

	if facilityName != "" {
		query += ` AND facility_name = $1`
		args = append(args, facilityName)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list calls")
	}
	defer rows.Close()

	var calls []model.CallRecord
	for rows.Next() {
		var recordJSON []byte
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan call")
		}
		var rec model.CallRecord
		if err := json.Unmarshal(recordJSON, &rec); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal call")
		}
		calls = append(calls, rec)
	}
	return calls, eris.Wrap(rows.Err(), "postgres: list calls iterate")
}
