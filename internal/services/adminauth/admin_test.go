package adminauth

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/licenseflow/license-portal/internal/config"
	"github.com/licenseflow/license-portal/internal/models"
	"github.com/licenseflow/license-portal/internal/services/directory"
)

type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) CountAdmins(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAdminRepo) CreateAdmin(ctx context.Context, admin models.Admin) (string, error) {
	args := m.Called(ctx, admin)
	return args.String(0), args.Error(1)
}

func (m *MockAdminRepo) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Admin), args.Error(1)
}

type MockAccountCreator struct {
	mock.Mock
}

func (m *MockAccountCreator) Create(ctx context.Context, req models.CreateAccountData) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_Authenticate(t *testing.T) {
	const rawPassword = "admin-secret"
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	require.NoError(t, err)

	tests := []struct {
		name      string
		email     string
		password  string
		setupMock func(repo *MockAdminRepo)
		wantErr   error
	}{
		{
			name:     "успешный вход",
			email:    "root@portal.io",
			password: rawPassword,
			setupMock: func(repo *MockAdminRepo) {
				repo.On("GetAdminByEmail", mock.Anything, "root@portal.io").
					Return(&models.Admin{ID: "adm-1", Email: "root@portal.io", PasswordHash: string(hash)}, nil)
			},
		},
		{
			name:     "неизвестный email",
			email:    "ghost@portal.io",
			password: rawPassword,
			setupMock: func(repo *MockAdminRepo) {
				repo.On("GetAdminByEmail", mock.Anything, "ghost@portal.io").
					Return(nil, fmt.Errorf("storage.GetAdminByEmail: %w", sql.ErrNoRows))
			},
			wantErr: directory.ErrNotFound,
		},
		{
			name:     "неверный пароль",
			email:    "root@portal.io",
			password: "wrong",
			setupMock: func(repo *MockAdminRepo) {
				repo.On("GetAdminByEmail", mock.Anything, "root@portal.io").
					Return(&models.Admin{ID: "adm-1", PasswordHash: string(hash)}, nil)
			},
			wantErr: directory.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAdminRepo)
			tt.setupMock(repo)
			svc := New(repo, new(MockAccountCreator), &config.Config{}, discardLogger())

			got, err := svc.Authenticate(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "adm-1", got.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Seed(t *testing.T) {
	cfgWithAdmin := func() *config.Config {
		cfg := &config.Config{}
		cfg.AdminEmail = "root@portal.io"
		cfg.AdminPassword = "bootstrap-secret"
		cfg.AdminName = "System Administrator"
		return cfg
	}

	t.Run("создает администратора при пустой таблице", func(t *testing.T) {
		repo := new(MockAdminRepo)
		repo.On("CountAdmins", mock.Anything).Return(0, nil)
		repo.On("CreateAdmin", mock.Anything, mock.Anything).Return("adm-1", nil)

		svc := New(repo, new(MockAccountCreator), cfgWithAdmin(), discardLogger())
		require.NoError(t, svc.Seed(context.Background()))

		created := repo.Calls[1].Arguments.Get(1).(models.Admin)
		assert.Equal(t, "root@portal.io", created.Email)
		// Пароль никогда не сохраняется открытым текстом.
		assert.NotEqual(t, "bootstrap-secret", created.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(created.PasswordHash), []byte("bootstrap-secret")))
	})

	t.Run("повторный запуск ничего не создает", func(t *testing.T) {
		repo := new(MockAdminRepo)
		repo.On("CountAdmins", mock.Anything).Return(1, nil)

		svc := New(repo, new(MockAccountCreator), cfgWithAdmin(), discardLogger())
		require.NoError(t, svc.Seed(context.Background()))
		repo.AssertNotCalled(t, "CreateAdmin", mock.Anything, mock.Anything)
	})

	t.Run("без учетных данных в окружении шаг пропускается", func(t *testing.T) {
		repo := new(MockAdminRepo)
		repo.On("CountAdmins", mock.Anything).Return(0, nil)

		svc := New(repo, new(MockAccountCreator), &config.Config{}, discardLogger())
		require.NoError(t, svc.Seed(context.Background()))
		repo.AssertNotCalled(t, "CreateAdmin", mock.Anything, mock.Anything)
	})

	t.Run("демо-запись создается и дубликат не считается ошибкой", func(t *testing.T) {
		cfg := cfgWithAdmin()
		cfg.DemoEnabled = true
		cfg.DemoEmail = "demo@company.com"
		cfg.DemoPassword = "demo-secret"
		cfg.DemoCompanyName = "Demo Company Ltd."
		cfg.DemoContactPerson = "John Demo"
		cfg.DemoLicenseDuration = 365

		repo := new(MockAdminRepo)
		repo.On("CountAdmins", mock.Anything).Return(1, nil)
		accounts := new(MockAccountCreator)
		accounts.On("Create", mock.Anything, mock.Anything).
			Return("", directory.ErrDuplicateEmail)

		svc := New(repo, accounts, cfg, discardLogger())
		require.NoError(t, svc.Seed(context.Background()))
		accounts.AssertExpectations(t)
	})
}
