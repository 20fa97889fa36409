package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapex/outreach-engine/internal/model"
)

func TestSQLite_MigrateIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, st.Migrate(context.Background()))
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))

	job, err := st.CreateJob(ctx, model.JobTypeScrape)
	require.NoError(t, err)
	require.NoError(t, st.SaveAnalysis(ctx, testLeadAnalysis("https://clinic-a.com", "Clinic A", 72)))
	require.NoError(t, st.Close())

	st, err = NewSQLite(dbPath)
	require.NoError(t, err)
	defer st.Close()

	got, err := st.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)

	analysis, err := st.GetAnalysis(ctx, "https://clinic-a.com")
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, 72, analysis.LeadScore)
}

func TestSQLite_ListJobsLimit(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := st.CreateJob(ctx, model.JobTypeScrape)
		require.NoError(t, err)
	}

	jobs, err := st.ListJobs(ctx, JobFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
}

func TestSQLite_ListAnalysesLimit(t *testing.T) {
	st := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, st.SaveAnalyses(ctx, []model.LeadAnalysis{
		testLeadAnalysis("https://clinic-a.com", "Clinic A", 55),
		testLeadAnalysis("https://clinic-b.com", "Clinic B", 90),
		testLeadAnalysis("https://clinic-c.com", "Clinic C", 72),
	}))

	top, err := st.ListAnalyses(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Clinic B", top[0].FacilityName)
	assert.Equal(t, "Clinic C", top[1].FacilityName)
}
