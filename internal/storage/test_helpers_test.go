package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/lms-platform/internal/migrations"
	"github.com/magabrotheeeer/lms-platform/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("lms_test"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

// testDataFactory создаёт тестовые записи через публичные методы Storage.
type testDataFactory struct {
	storage *Storage
}

func (f *testDataFactory) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.storage.CreateUser(context.Background(), &models.User{Email: email, PasswordHash: "hash"})
	require.NoError(t, err)
	return u
}

func (f *testDataFactory) course(t *testing.T, ownerID int64, title string) *models.Course {
	t.Helper()
	c, err := f.storage.CreateCourse(context.Background(), ownerID, models.CourseInput{
		Title:       title,
		Description: title + " description",
	})
	require.NoError(t, err)
	return c
}

func (f *testDataFactory) lesson(t *testing.T, ownerID, courseID int64, title string) *models.Lesson {
	t.Helper()
	l, err := f.storage.CreateLesson(context.Background(), ownerID, models.LessonInput{
		CourseID:    courseID,
		Title:       title,
		Description: title + " description",
	})
	require.NoError(t, err)
	return l
}
