package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/scrapex/outreach-engine/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS jobs (
	id          TEXT PRIMARY KEY,
	type        TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'queued',
	result      TEXT,
	error       TEXT,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	started_at  DATETIME,
	finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS facilities (
	url        TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	record     TEXT NOT NULL,
	scraped_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS analyses (
	url         TEXT PRIMARY KEY,
	facility    TEXT NOT NULL,
	lead_score  INTEGER NOT NULL,
	urgency     TEXT NOT NULL,
	analysis    TEXT NOT NULL,
	analyzed_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS calls (
	id            TEXT PRIMARY KEY,
	facility_name TEXT NOT NULL,
	phone_number  TEXT NOT NULL,
	status        TEXT NOT NULL,
	record        TEXT NOT NULL,
	created_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_type ON jobs(type);
CREATE INDEX IF NOT EXISTS idx_analyses_score ON analyses(lead_score);
CREATE INDEX IF NOT EXISTS idx_calls_facility ON calls(facility_name);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateJob(ctx context.Context, jobType model.JobType) (*model.Job, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, type, status, created_at) VALUES (?, ?, ?, ?)`,
		id, string(jobType), string(model.JobStatusQueued), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert job")
	}

	return &model.Job{
		ID:        id,
		Type:      jobType,
		Status:    model.JobStatusQueued,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) StartJob(ctx context.Context, jobID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, started_at = ? WHERE id = ?`,
		string(model.JobStatusRunning), time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: start job %s", jobID)
	}
	return checkRowsAffected(res, "job", jobID)
}

func (s *SQLiteStore) CompleteJob(ctx context.Context, jobID string, result any) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal job result")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, result = ?, finished_at = ? WHERE id = ?`,
		string(model.JobStatusCompleted), string(resultJSON), time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete job %s", jobID)
	}
	return checkRowsAffected(res, "job", jobID)
}

func (s *SQLiteStore) FailJob(ctx context.Context, jobID string, jobErr string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(model.JobStatusFailed), jobErr, time.Now().UTC(), jobID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail job %s", jobID)
	}
	return checkRowsAffected(res, "job", jobID)
}

func (s *SQLiteStore) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, status, result, error, created_at, started_at, finished_at FROM jobs WHERE id = ?`,
		jobID,
	)
	return scanJob(row)
}

func (s *SQLiteStore) ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error) {
	query := `SELECT id, type, status, result, error, created_at, started_at, finished_at FROM jobs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list jobs")
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, eris.Wrap(rows.Err(), "sqlite: list jobs iterate")
}

func (s *SQLiteStore) SaveFacility(ctx context.Context, rec model.FacilityRecord) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal facility")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO facilities (url, name, record, scraped_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET name = excluded.name, record = excluded.record, scraped_at = excluded.scraped_at`,
		rec.URL, rec.Name, string(recordJSON), rec.ScrapedAt,
	)
	return eris.Wrap(err, "sqlite: save facility")
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, analysis model.LeadAnalysis) error {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal analysis")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (url, facility, lead_score, urgency, analysis, analyzed_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET facility = excluded.facility, lead_score = excluded.lead_score,
		   urgency = excluded.urgency, analysis = excluded.analysis, analyzed_at = excluded.analyzed_at`,
		analysis.URL, analysis.FacilityName, analysis.LeadScore, string(analysis.Urgency),
		string(analysisJSON), analysis.AnalyzedAt,
	)
	return eris.Wrap(err, "sqlite: save analysis")
}

func (s *SQLiteStore) SaveAnalyses(ctx context.Context, analyses []model.LeadAnalysis) error {
	for _, a := range analyses {
		if err := s.SaveAnalysis(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, url string) (*model.LeadAnalysis, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT analysis FROM analyses WHERE url = ?`,
		url,
	)

	var analysisJSON string
	err := row.Scan(&analysisJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get analysis")
	}

	var analysis model.LeadAnalysis
	if err := json.Unmarshal([]byte(analysisJSON), &analysis); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal analysis")
	}
	return &analysis, nil
}

func (s *SQLiteStore) ListAnalyses(ctx context.Context, limit int) ([]model.LeadAnalysis, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT analysis FROM analyses ORDER BY lead_score DESC, analyzed_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list analyses")
	}
	defer rows.Close()

	var analyses []model.LeadAnalysis
	for rows.Next() {
		var analysisJSON string
		if err := rows.Scan(&analysisJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan analysis")
		}
		var a model.LeadAnalysis
		if err := json.Unmarshal([]byte(analysisJSON), &a); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal analysis")
		}
		analyses = append(analyses, a)
	}
	return analyses, eris.Wrap(rows.Err(), "sqlite: list analyses iterate")
}

func (s *SQLiteStore) SaveCall(ctx context.Context, rec model.CallRecord) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal call")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO calls (id, facility_name, phone_number, status, record, created_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET status = excluded.status, record = excluded.record`,
		rec.ID, rec.FacilityName, rec.PhoneNumber, string(rec.Status), string(recordJSON), rec.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: save call")
}

func (s *SQLiteStore) ListCalls(ctx context.Context, facilityName string) ([]model.CallRecord, error) {
	query := `SELECT record FROM calls WHERE 1=1`
	var args []any

	if facilityName != "" {
		query += ` AND facility_name = ?`
		args = append(args, facilityName)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list calls")
	}
	defer rows.Close()

	var calls []model.CallRecord
	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan call")
		}
		var rec model.CallRecord
		if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal call")
		}
		calls = append(calls, rec)
	}
	return calls, eris.Wrap(rows.Err(), "sqlite: list calls iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanJob(row scannable) (*model.Job, error) {
	var j model.Job
	var resultJSON, jobErr sql.NullString
	var startedAt, finishedAt sql.NullTime

	err := row.Scan(&j.ID, &j.Type, &j.Status, &resultJSON, &jobErr, &j.CreatedAt, &startedAt, &finishedAt)
	if err == sql.ErrNoRows {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan job")
	}

	if resultJSON.Valid {
		j.Result = json.RawMessage(resultJSON.String)
	}
	if jobErr.Valid {
		j.Error = jobErr.String
	}
	if startedAt.Valid {
		t := startedAt.Time
		j.StartedAt = &t
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		j.FinishedAt = &t
	}
	return &j, nil
}
