package storage

import (
	"context"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDataFactory содержит методы для создания тестовых данных.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateAccount создает тестовую учётную запись и возвращает её id.
func (f *TestDataFactory) CreateAccount(t *testing.T, name, email, passwordHash string, isActive bool) int {
	t.Helper()
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO accounts (name, email, password_hash, is_active, last_login_date)
		VALUES ($1, $2, $3, $4, now()) RETURNING id`,
		name, email, passwordHash, isActive).Scan(&id)
	require.NoError(t, err)
	return id
}

// TestVerification содержит методы проверки состояния базы.
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый верификатор тестовых данных.
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyAccountExists проверяет, что учётная запись существует.
func (v *TestVerification) VerifyAccountExists(t *testing.T, id int) {
	t.Helper()
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM accounts WHERE id = $1", id).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

// VerifyAccountRemoved проверяет, что учётная запись удалена.
func (v *TestVerification) VerifyAccountRemoved(t *testing.T, id int) {
	t.Helper()
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM accounts WHERE id = $1", id).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort(nat.Port("5432/tcp")),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.DB.Exec(`
        DROP TABLE IF EXISTS accounts CASCADE;

        CREATE TABLE accounts (
            id SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT false,
            created_date TIMESTAMPTZ NOT NULL DEFAULT now(),
            last_login_date TIMESTAMPTZ
        );
    `)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		_ = storage.DB.Close()
		_ = testcontainers.TerminateContainer(pgContainer)
	}
	return storage, cleanup
}
