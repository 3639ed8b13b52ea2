package postgresdb_test

import (
	"context"
	"os"
	"testing"

	"resume-parser/internal/config"
	"resume-parser/internal/models"
	"resume-parser/internal/postgresdb"
	"resume-parser/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storage.JobStore = (*postgresdb.Store)(nil)

func setUpTestDB(t *testing.T) *postgresdb.Store {
	t.Helper()

	connString := os.Getenv("DB_TEST_URL")
	if connString == "" {
		t.Skip("DB_TEST_URL not set, skipping integration test")
	}

	ctx := context.Background()

	db, err := postgresdb.New(ctx, config.DatabaseConfig{DSN: connString, MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(ctx))

	t.Cleanup(func() {
		if _, err := db.Pool.Exec(ctx, "TRUNCATE TABLE resume_jobs"); err != nil {
			t.Errorf("failed to clean up resume_jobs table: %v", err)
		}
		db.Close()
	})

	return db
}

func createJob(t *testing.T, db *postgresdb.Store) *models.Job {
	t.Helper()

	job := &models.Job{ID: uuid.Must(uuid.NewV7()), FileName: "jane-doe.pdf"}
	require.NoError(t, db.Create(context.Background(), job))
	return job
}

func TestCreateAndGet(t *testing.T) {
	db := setUpTestDB(t)
	job := createJob(t, db)

	assert.False(t, job.CreatedAt.IsZero())

	got, err := db.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, models.StatusQueued, got.Status)
	assert.Equal(t, "jane-doe.pdf", got.FileName)
	assert.Nil(t, got.Result)
	assert.Nil(t, got.ErrorReason)
}

func TestGetMissingJob(t *testing.T) {
	db := setUpTestDB(t)

	_, err := db.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, storage.ErrJobNotFound)
}

func TestCompleteStoresResult(t *testing.T) {
	db := setUpTestDB(t)
	ctx := context.Background()
	job := createJob(t, db)

	require.NoError(t, db.MarkProcessing(ctx, job.ID))

	result := &models.ParsedResume{
		Personal: models.PersonalInfo{FirstName: "Jane", LastName: "Doe"},
		Skills:   []models.SkillEntry{{Label: "Go", Value: "go"}},
	}
	require.NoError(t, db.Complete(ctx, job.ID, result))

	got, err := db.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "Jane", got.Result.Personal.FirstName)
	assert.Equal(t, result.Skills, got.Result.Skills)
	assert.Empty(t, got.Result.Jobs)
}

func TestFailStoresReason(t *testing.T) {
	db := setUpTestDB(t)
	ctx := context.Background()
	job := createJob(t, db)

	require.NoError(t, db.Fail(ctx, job.ID, "wrong_template", "Can only accept TYFYC resumes"))

	got, err := db.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	require.NotNil(t, got.ErrorReason)
	assert.Equal(t, "wrong_template", *got.ErrorReason)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "Can only accept TYFYC resumes", *got.ErrorMessage)
}

func TestUpdateMissingJob(t *testing.T) {
	db := setUpTestDB(t)

	err := db.MarkProcessing(context.Background(), uuid.New())
	assert.ErrorIs(t, err, storage.ErrJobNotFound)
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := postgresdb.New(context.Background(), config.DatabaseConfig{})
	assert.Error(t, err)
}
