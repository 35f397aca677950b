package repositories

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tjmun/confreg/internal/app/migrations"
	"github.com/tjmun/confreg/internal/app/models"
)

// testDatabaseEnv names a disposable Postgres database; tables in it are truncated.
const testDatabaseEnv = "CONFREG_TEST_DATABASE_URL"

// newTestPool connects to the test database, applies the migrations and empties every table
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(testDatabaseEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping Postgres-backed repository test", testDatabaseEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool).MigrateFromDirectory(ctx, filepath.Join("..", "..", "..", "migrations")))

	_, err = pool.Exec(ctx, "TRUNCATE registrations, announcements, conferences, users, seat_assignments, site_config RESTART IDENTITY CASCADE")
	require.NoError(t, err)
	return pool
}

func TestSeatAssignmentRepository_ReplaceAll(t *testing.T) {
	pool := newTestPool(t)
	repo := NewSeatAssignmentRepository(pool)
	ctx := context.Background()

	t.Run("replaces the dataset and skips duplicate people per venue", func(t *testing.T) {
		_, err := repo.ReplaceAll(ctx, seatRows(3))
		require.NoError(t, err)

		rows := seatRows(2)
		dup := rows[0]
		dup.Seat = "S-99"
		rows = append(rows, dup)

		inserted, err := repo.ReplaceAll(ctx, rows)
		require.NoError(t, err)
		assert.Equal(t, int64(2), inserted)

		seats, total, err := repo.List(ctx, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, seats, 2)
		assert.Equal(t, "S-1", seats[0].Seat)
	})

	t.Run("a failing batch rolls back and keeps the previous rows", func(t *testing.T) {
		_, err := repo.ReplaceAll(ctx, seatRows(2))
		require.NoError(t, err)

		// the second batch breaks on the name length after the first one went in
		rows := seatRows(seatInsertBatchSize + 1)
		rows[seatInsertBatchSize].Name = strings.Repeat("名", 101)

		inserted, err := repo.ReplaceAll(ctx, rows)
		require.Error(t, err)
		assert.Zero(t, inserted)

		seats, total, err := repo.List(ctx, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, seats, 2)
	})

	t.Run("an import larger than one batch is fully counted", func(t *testing.T) {
		inserted, err := repo.ReplaceAll(ctx, seatRows(seatInsertBatchSize+3))
		require.NoError(t, err)
		assert.Equal(t, int64(seatInsertBatchSize+3), inserted)
	})
}

func TestSeatAssignmentRepository_FindMatches(t *testing.T) {
	pool := newTestPool(t)
	repo := NewSeatAssignmentRepository(pool)
	ctx := context.Background()

	_, err := repo.ReplaceAll(ctx, []models.SeatAssignment{
		{Name: "Alice", Phone: "13800001234", Venue: "WHO", Seat: "A-1", QQGroup: "111"},
		{Name: "alice", Phone: "13900001234", Venue: "UNSC", Seat: "B-2", QQGroup: "222"},
		{Name: "Alice", Phone: "13800005678", Venue: "ECOSOC", Seat: "C-3", QQGroup: "333"},
	})
	require.NoError(t, err)

	matches, err := repo.FindMatches(ctx, models.SeatQuery{Name: "  ALICE ", PhoneLastFour: "1234"})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "A-1", matches[0].Seat)
	assert.Equal(t, "B-2", matches[1].Seat)

	matches, err = repo.FindMatches(ctx, models.SeatQuery{Name: "Bob", PhoneLastFour: "1234"})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func testConference(name, slug string) *models.Conference {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Conference{
		Name:                  name,
		Slug:                  slug,
		StartDate:             now.Add(30 * 24 * time.Hour),
		EndDate:               now.Add(32 * 24 * time.Hour),
		RegistrationOpenDate:  now.Add(-24 * time.Hour),
		RegistrationCloseDate: now.Add(24 * time.Hour),
		Fee:                   120,
	}
}

func TestConferenceRepository_DuplicateConstraints(t *testing.T) {
	pool := newTestPool(t)
	repo := NewConferenceRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, testConference("2025 模拟联合国大会", "mun-2025"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, testConference("2025 模拟联合国大会", "mun-2025-b"))
	assert.ErrorIs(t, err, ErrDuplicateConferenceName)

	_, err = repo.Create(ctx, testConference("2025 模联冬季会", "mun-2025"))
	assert.ErrorIs(t, err, ErrDuplicateConferenceSlug)

	other := testConference("2026 模拟联合国大会", "mun-2026")
	_, err = repo.Create(ctx, other)
	require.NoError(t, err)
	other.Slug = "mun-2025"
	assert.ErrorIs(t, repo.Update(ctx, other), ErrDuplicateConferenceSlug)
}

func TestRegistrationRepository_DuplicateRegistration(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()

	userID, err := NewUserRepository(pool).Create(ctx, &models.User{
		Email:    "student@tongji.edu.cn",
		Password: "hash",
		Name:     "张三",
		School:   "同济大学",
		RoleType: models.RoleStudent,
	})
	require.NoError(t, err)
	confID, err := NewConferenceRepository(pool).Create(ctx, testConference("2025 模拟联合国大会", "mun-2025"))
	require.NoError(t, err)

	repo := NewRegistrationRepository(pool)
	newReg := func() *models.Registration {
		return &models.Registration{
			UserID:             userID,
			ConferenceID:       confID,
			RegistrationStatus: models.RegistrationPending,
			PaymentStatus:      models.PaymentUnpaid,
		}
	}

	_, err = repo.Create(ctx, newReg())
	require.NoError(t, err)

	_, err = repo.Create(ctx, newReg())
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
}
