package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/licenseflow/license-portal/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных.
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных.
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateAccount создает тестовую учетную запись и возвращает её ID.
func (f *TestDataFactory) CreateAccount(t *testing.T, email, companyName string,
	licenseExpiry time.Time, licenseDuration int, isActive bool) string {
	t.Helper()
	now := time.Now().UTC()
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO accounts
		(email, password_hash, company_name, contact_person, license_expiry,
		 license_duration, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		email, "hashedpassword", companyName, "Test Person",
		licenseExpiry, licenseDuration, isActive, now, now).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateAdmin создает тестового администратора.
func (f *TestDataFactory) CreateAdmin(t *testing.T, email, passwordHash, name string) string {
	t.Helper()
	var id string
	err := f.storage.DB.QueryRow(`INSERT INTO admins (email, password_hash, name)
		VALUES ($1, $2, $3) RETURNING id`,
		email, passwordHash, name).Scan(&id)
	require.NoError(t, err)
	return id
}

// GetTestAccountData возвращает стандартные данные учетной записи для вставки.
func GetTestAccountData() models.Account {
	now := time.Now().UTC()
	return models.Account{
		Email:           uuid.New().String() + "@example.com",
		PasswordHash:    "hashedpassword",
		CompanyName:     "Test Company Ltd.",
		ContactPerson:   "Test Person",
		Phone:           "+1 (555) 123-4567",
		Address:         "123 Test Street",
		LicenseExpiry:   now.Add(365 * 24 * time.Hour),
		LicenseDuration: 365,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// setupTestDatabase поднимает одноразовый контейнер PostgreSQL и применяет схему.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(3*time.Minute)),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			if err = storage.DB.Ping(); err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.DB.Exec(`
        CREATE EXTENSION IF NOT EXISTS "pgcrypto";

        CREATE TABLE IF NOT EXISTS admins (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            name TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );

        CREATE TABLE IF NOT EXISTS accounts (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            email TEXT NOT NULL,
            password_hash TEXT NOT NULL,
            company_name TEXT NOT NULL,
            contact_person TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            license_expiry TIMESTAMPTZ NOT NULL,
            license_duration INT NOT NULL,
            is_active BOOLEAN NOT NULL DEFAULT true,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL,
            last_login TIMESTAMPTZ
        );
    `)
	require.NoError(t, err, "failed to create schema")

	cleanup := func() {
		_ = storage.DB.Close()
		_ = pgContainer.Terminate(ctx)
	}
	return storage, cleanup
}
