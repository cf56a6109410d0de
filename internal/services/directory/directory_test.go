package directory

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/licenseflow/license-portal/internal/models"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) AccountEmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepo) CreateAccount(ctx context.Context, account models.Account) (string, error) {
	args := m.Called(ctx, account)
	return args.String(0), args.Error(1)
}

func (m *MockRepo) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockRepo) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *MockRepo) UpdateAccount(ctx context.Context, id string, upd models.UpdateAccountData,
	licenseExpiry *time.Time, updatedAt time.Time) (int64, error) {
	args := m.Called(ctx, id, upd, licenseExpiry, updatedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) DeleteAccount(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hashFor(t *testing.T, raw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	require.NoError(t, err)
	return string(h)
}

func TestService_Authenticate(t *testing.T) {
	const rawPassword = "correct horse"
	account := &models.Account{
		ID:           "acc-1",
		Email:        "firm@example.com",
		PasswordHash: "",
		IsActive:     true,
	}

	tests := []struct {
		name      string
		email     string
		password  string
		setupMock func(t *testing.T, repo *MockRepo)
		wantErr   error
	}{
		{
			name:     "успешный вход фиксирует время входа",
			email:    "firm@example.com",
			password: rawPassword,
			setupMock: func(t *testing.T, repo *MockRepo) {
				acc := *account
				acc.PasswordHash = hashFor(t, rawPassword)
				repo.On("GetAccountByEmail", mock.Anything, "firm@example.com").Return(&acc, nil)
				repo.On("UpdateLastLogin", mock.Anything, "acc-1", mock.Anything).Return(nil)
			},
			wantErr: nil,
		},
		{
			name:     "неизвестный email",
			email:    "ghost@example.com",
			password: rawPassword,
			setupMock: func(t *testing.T, repo *MockRepo) {
				repo.On("GetAccountByEmail", mock.Anything, "ghost@example.com").
					Return(nil, fmt.Errorf("storage.GetAccountByEmail: %w", sql.ErrNoRows))
			},
			wantErr: ErrNotFound,
		},
		{
			name:     "деактивированная запись",
			email:    "firm@example.com",
			password: rawPassword,
			setupMock: func(t *testing.T, repo *MockRepo) {
				acc := *account
				acc.PasswordHash = hashFor(t, rawPassword)
				acc.IsActive = false
				repo.On("GetAccountByEmail", mock.Anything, "firm@example.com").Return(&acc, nil)
			},
			wantErr: ErrInactive,
		},
		{
			name:     "неверный пароль",
			email:    "firm@example.com",
			password: "wrong",
			setupMock: func(t *testing.T, repo *MockRepo) {
				acc := *account
				acc.PasswordHash = hashFor(t, rawPassword)
				repo.On("GetAccountByEmail", mock.Anything, "firm@example.com").Return(&acc, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepo)
			tt.setupMock(t, repo)
			svc := New(repo, new(MockCache), discardLogger(), 7)

			start := time.Now().UTC()
			got, err := svc.Authenticate(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got.LastLogin)
				assert.False(t, got.LastLogin.Before(start))
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Create(t *testing.T) {
	req := models.CreateAccountData{
		Email:           "new@example.com",
		Password:        "secret123",
		CompanyName:     "New Ltd.",
		ContactPerson:   "Jane Roe",
		LicenseDuration: 365,
	}

	t.Run("вычисляет дату истечения от текущего момента", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		repo.On("AccountEmailExists", mock.Anything, req.Email).Return(false, nil)
		repo.On("CreateAccount", mock.Anything, mock.Anything).Return("acc-new", nil)
		cache.On("Set", "account:acc-new", mock.Anything, time.Hour).Return(nil)

		svc := New(repo, cache, discardLogger(), 7)
		start := time.Now().UTC()
		id, err := svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "acc-new", id)

		created := repo.Calls[1].Arguments.Get(1).(models.Account)
		assert.True(t, created.IsActive)
		assert.NotEqual(t, req.Password, created.PasswordHash)
		wantExpiry := start.Add(365 * 24 * time.Hour)
		assert.WithinDuration(t, wantExpiry, created.LicenseExpiry, 5*time.Second)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("занятый email не создает записи", func(t *testing.T) {
		repo := new(MockRepo)
		repo.On("AccountEmailExists", mock.Anything, req.Email).Return(true, nil)

		svc := New(repo, new(MockCache), discardLogger(), 7)
		_, err := svc.Create(context.Background(), req)
		require.ErrorIs(t, err, ErrDuplicateEmail)
		repo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
	})
}

func TestService_GetByID(t *testing.T) {
	t.Run("отсутствующая запись возвращает nil без ошибки", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		cache.On("Get", "account:missing", mock.Anything).Return(false, nil)
		repo.On("GetAccount", mock.Anything, "missing").
			Return(nil, fmt.Errorf("storage.GetAccount: %w", sql.ErrNoRows))

		svc := New(repo, cache, discardLogger(), 7)
		got, err := svc.GetByID(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("промах кеша кладет запись в кеш", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		acc := &models.Account{ID: "acc-1", CompanyName: "Firm Ltd."}
		cache.On("Get", "account:acc-1", mock.Anything).Return(false, nil)
		repo.On("GetAccount", mock.Anything, "acc-1").Return(acc, nil)
		cache.On("Set", "account:acc-1", acc, time.Hour).Return(nil)

		svc := New(repo, cache, discardLogger(), 7)
		got, err := svc.GetByID(context.Background(), "acc-1")
		require.NoError(t, err)
		assert.Equal(t, "Firm Ltd.", got.CompanyName)
		cache.AssertExpectations(t)
	})
}

func TestService_Update(t *testing.T) {
	t.Run("новая длительность пересчитывает дату истечения", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		duration := 30
		repo.On("UpdateAccount", mock.Anything, "acc-1", mock.Anything, mock.Anything, mock.Anything).
			Return(int64(1), nil)
		cache.On("Invalidate", "account:acc-1").Return(nil)

		svc := New(repo, cache, discardLogger(), 7)
		start := time.Now().UTC()
		err := svc.Update(context.Background(), "acc-1",
			models.UpdateAccountData{LicenseDuration: &duration})
		require.NoError(t, err)

		expiry := repo.Calls[0].Arguments.Get(3).(*time.Time)
		require.NotNil(t, expiry)
		assert.WithinDuration(t, start.Add(30*24*time.Hour), *expiry, 5*time.Second)
	})

	t.Run("без длительности дата истечения не передается", func(t *testing.T) {
		repo := new(MockRepo)
		cache := new(MockCache)
		name := "Renamed Ltd."
		repo.On("UpdateAccount", mock.Anything, "acc-1", mock.Anything, (*time.Time)(nil), mock.Anything).
			Return(int64(1), nil)
		cache.On("Invalidate", "account:acc-1").Return(nil)

		svc := New(repo, cache, discardLogger(), 7)
		err := svc.Update(context.Background(), "acc-1",
			models.UpdateAccountData{CompanyName: &name})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("обновление несуществующей записи", func(t *testing.T) {
		repo := new(MockRepo)
		name := "Ghost Ltd."
		repo.On("UpdateAccount", mock.Anything, "missing", mock.Anything, mock.Anything, mock.Anything).
			Return(int64(0), nil)

		svc := New(repo, new(MockCache), discardLogger(), 7)
		err := svc.Update(context.Background(), "missing",
			models.UpdateAccountData{CompanyName: &name})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	repo := new(MockRepo)
	cache := new(MockCache)
	cache.On("Invalidate", "account:acc-1").Return(nil)
	repo.On("DeleteAccount", mock.Anything, "acc-1").Return(int64(1), nil).Once()
	repo.On("DeleteAccount", mock.Anything, "acc-1").Return(int64(0), nil).Once()

	svc := New(repo, cache, discardLogger(), 7)
	require.NoError(t, svc.Delete(context.Background(), "acc-1"))
	require.ErrorIs(t, svc.Delete(context.Background(), "acc-1"), ErrNotFound)
}

func TestService_Extend(t *testing.T) {
	repo := new(MockRepo)
	cache := new(MockCache)
	acc := &models.Account{ID: "acc-1", LicenseDuration: 365}
	cache.On("Get", "account:acc-1", mock.Anything).Return(false, nil)
	repo.On("GetAccount", mock.Anything, "acc-1").Return(acc, nil)
	cache.On("Set", "account:acc-1", acc, time.Hour).Return(nil)
	repo.On("UpdateAccount", mock.Anything, "acc-1", mock.Anything, mock.Anything, mock.Anything).
		Return(int64(1), nil)
	cache.On("Invalidate", "account:acc-1").Return(nil)

	svc := New(repo, cache, discardLogger(), 7)
	require.NoError(t, svc.Extend(context.Background(), "acc-1", 90))

	var upd models.UpdateAccountData
	for _, call := range repo.Calls {
		if call.Method == "UpdateAccount" {
			upd = call.Arguments.Get(2).(models.UpdateAccountData)
		}
	}
	require.NotNil(t, upd.LicenseDuration)
	assert.Equal(t, 455, *upd.LicenseDuration)
}

func TestService_License(t *testing.T) {
	repo := new(MockRepo)
	cache := new(MockCache)
	now := time.Now().UTC()
	acc := &models.Account{
		ID:              "acc-1",
		CompanyName:     "Firm Ltd.",
		LicenseExpiry:   now.Add(3 * 24 * time.Hour),
		LicenseDuration: 365,
		IsActive:        true,
	}
	cache.On("Get", "account:acc-1", mock.Anything).Return(false, nil)
	repo.On("GetAccount", mock.Anything, "acc-1").Return(acc, nil)
	cache.On("Set", "account:acc-1", acc, time.Hour).Return(nil)

	svc := New(repo, cache, discardLogger(), 7)
	info, err := svc.License(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "expiring", info.Status)
	assert.Equal(t, 2, info.DaysRemaining)
	assert.Equal(t, "Firm Ltd.", info.CompanyName)
}
