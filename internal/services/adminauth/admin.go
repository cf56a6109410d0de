// Package adminauth отвечает за вход администраторов и начальное
// заполнение: создание bootstrap-администратора и, опционально,
// демонстрационной учетной записи компании при первом запуске.
package adminauth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/licenseflow/license-portal/internal/config"
	"github.com/licenseflow/license-portal/internal/lib/password"
	"github.com/licenseflow/license-portal/internal/models"
	"github.com/licenseflow/license-portal/internal/services/directory"
)

// AdminRepository определяет методы для работы с администраторами в хранилище.
type AdminRepository interface {
	// CountAdmins возвращает число администраторов.
	CountAdmins(ctx context.Context) (int, error)
	// CreateAdmin сохраняет администратора и возвращает его ID.
	CreateAdmin(ctx context.Context, admin models.Admin) (string, error)
	// GetAdminByEmail возвращает администратора по email.
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// AccountCreator создает учетные записи компаний. Нужен шагу
// начального заполнения для демонстрационной записи.
type AccountCreator interface {
	Create(ctx context.Context, req models.CreateAccountData) (string, error)
}

// Service реализует аутентификацию администраторов и Seed.
type Service struct {
	repo     AdminRepository
	accounts AccountCreator
	cfg      *config.Config
	log      *slog.Logger

	seedMu sync.Mutex
}

// New создает новый экземпляр Service.
func New(repo AdminRepository, accounts AccountCreator, cfg *config.Config, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		cfg:      cfg,
		log:      log,
	}
}

// Authenticate проверяет учетные данные администратора.
// В отличие от входа компаний здесь нет флага активности и
// фиксации времени входа.
func (s *Service) Authenticate(ctx context.Context, email, rawPassword string) (*models.Admin, error) {
	admin, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, directory.ErrNotFound
		}
		return nil, err
	}
	if err := password.CompareHash(admin.PasswordHash, rawPassword); err != nil {
		return nil, directory.ErrInvalidCredentials
	}

	s.log.Info("admin logged in", slog.String("admin_id", admin.ID))
	return admin, nil
}

// Seed выполняет идемпотентное начальное заполнение. Администратор
// создается только если таблица пуста и учетные данные заданы в
// окружении. Повторные вызовы и параллельные запуски безопасны.
func (s *Service) Seed(ctx context.Context) error {
	const op = "adminauth.Seed"
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
			s.log.Warn("no admins exist and bootstrap credentials are not set, skipping admin seed")
		} else {
			hashed, err := password.GetHash(s.cfg.AdminPassword)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			id, err := s.repo.CreateAdmin(ctx, models.Admin{
				Email:        s.cfg.AdminEmail,
				PasswordHash: hashed,
				Name:         s.cfg.AdminName,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			s.log.Info("seeded bootstrap admin", slog.String("admin_id", id))
		}
	}

	if s.cfg.DemoEnabled && s.cfg.DemoPassword != "" {
		_, err := s.accounts.Create(ctx, models.CreateAccountData{
			Email:           s.cfg.DemoEmail,
			Password:        s.cfg.DemoPassword,
			CompanyName:     s.cfg.DemoCompanyName,
			ContactPerson:   s.cfg.DemoContactPerson,
			Phone:           s.cfg.DemoPhone,
			Address:         s.cfg.DemoAddress,
			LicenseDuration: s.cfg.DemoLicenseDuration,
		})
		switch {
		case errors.Is(err, directory.ErrDuplicateEmail):
			// Демо-запись уже существует, это ожидаемо при рестартах.
		case err != nil:
			return fmt.Errorf("%s: %w", op, err)
		default:
			s.log.Info("seeded demo account", slog.String("email", s.cfg.DemoEmail))
		}
	}

	return nil
}
