// Package directory содержит бизнес-логику справочника учетных записей:
// аутентификацию, создание, чтение, обновление, продление и удаление
// записей компаний, а также расчет состояния лицензии для отображения.
package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/licenseflow/license-portal/internal/lib/license"
	"github.com/licenseflow/license-portal/internal/lib/password"
	"github.com/licenseflow/license-portal/internal/models"
)

// Ошибки справочника, проверяемые на границе HTTP через errors.Is.
var (
	// ErrNotFound — учетная запись не найдена по email или id.
	ErrNotFound = errors.New("account not found")
	// ErrInactive — попытка входа в деактивированную учетную запись.
	ErrInactive = errors.New("account is inactive")
	// ErrInvalidCredentials — пароль не совпал.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail — создание записи с уже занятым email.
	ErrDuplicateEmail = errors.New("email already registered")
)

const day = 24 * time.Hour

// AccountRepository определяет методы для работы с учетными записями в хранилище.
type AccountRepository interface {
	// AccountEmailExists сообщает, занят ли email.
	AccountEmailExists(ctx context.Context, email string) (bool, error)
	// CreateAccount добавляет новую запись и возвращает её ID.
	CreateAccount(ctx context.Context, account models.Account) (string, error)
	// GetAccount возвращает запись по ID.
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	// GetAccountByEmail возвращает запись по email.
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	// ListAccounts возвращает все записи, новые первыми.
	ListAccounts(ctx context.Context) ([]*models.Account, error)
	// UpdateAccount выполняет частичное обновление, возвращает число затронутых строк.
	UpdateAccount(ctx context.Context, id string, upd models.UpdateAccountData,
		licenseExpiry *time.Time, updatedAt time.Time) (int64, error)
	// DeleteAccount удаляет запись, возвращает число удалённых строк.
	DeleteAccount(ctx context.Context, id string) (int64, error)
	// UpdateLastLogin фиксирует время успешного входа.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует операции справочника учетных записей.
type Service struct {
	repo        AccountRepository
	cache       Cache
	log         *slog.Logger
	warningDays int
}

// New создает новый экземпляр Service.
func New(repo AccountRepository, cache Cache, log *slog.Logger, warningDays int) *Service {
	if warningDays <= 0 {
		warningDays = license.DefaultWarningDays
	}
	return &Service{
		repo:        repo,
		cache:       cache,
		log:         log,
		warningDays: warningDays,
	}
}

// Authenticate проверяет учетные данные компании. При успехе фиксирует
// время входа и возвращает запись с уже обновленным LastLogin.
func (s *Service) Authenticate(ctx context.Context, email, rawPassword string) (*models.Account, error) {
	account, err := s.repo.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, ErrInactive
	}
	if err := password.CompareHash(account.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, account.ID, now); err != nil {
		return nil, err
	}
	account.LastLogin = &now

	s.log.Info("account logged in", slog.String("account_id", account.ID))
	return account, nil
}

// Create создает новую учетную запись: проверяет занятость email,
// хэширует пароль и вычисляет дату истечения лицензии от текущего момента.
func (s *Service) Create(ctx context.Context, req models.CreateAccountData) (string, error) {
	exists, err := s.repo.AccountEmailExists(ctx, req.Email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrDuplicateEmail
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	account := models.Account{
		Email:           req.Email,
		PasswordHash:    hashed,
		CompanyName:     req.CompanyName,
		ContactPerson:   req.ContactPerson,
		Phone:           req.Phone,
		Address:         req.Address,
		LicenseExpiry:   now.Add(time.Duration(req.LicenseDuration) * day),
		LicenseDuration: req.LicenseDuration,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	id, err := s.repo.CreateAccount(ctx, account)
	if err != nil {
		return "", err
	}
	s.log.Info("created new account", slog.String("id", id))

	account.ID = id
	cacheKey := fmt.Sprintf("account:%s", id)
	if err := s.cache.Set(cacheKey, account, time.Hour); err != nil {
		s.log.Warn("failed to cache account", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return id, nil
}

// List возвращает все учетные записи, новые первыми.
func (s *Service) List(ctx context.Context) ([]*models.Account, error) {
	return s.repo.ListAccounts(ctx)
}

// GetByID возвращает запись по ID, используя кеш или репозиторий.
// Отсутствие записи — валидный результат (nil, nil).
func (s *Service) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var result *models.Account
	cacheKey := fmt.Sprintf("account:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Update выполняет частичное обновление записи. Если среди полей есть
// LicenseDuration, дата истечения пересчитывается от момента вызова:
// якорь лицензии сбрасывается на "сейчас", а не продлевается от старой даты.
func (s *Service) Update(ctx context.Context, id string, req models.UpdateAccountData) error {
	now := time.Now().UTC()
	var licenseExpiry *time.Time
	if req.LicenseDuration != nil {
		expiry := now.Add(time.Duration(*req.LicenseDuration) * day)
		licenseExpiry = &expiry
	}

	affected, err := s.repo.UpdateAccount(ctx, id, req, licenseExpiry, now)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	cacheKey := fmt.Sprintf("account:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	s.log.Info("updated account", slog.String("id", id))
	return nil
}

// Delete удаляет учетную запись и инвалидирует кеш.
func (s *Service) Delete(ctx context.Context, id string) error {
	cacheKey := fmt.Sprintf("account:%s", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	affected, err := s.repo.DeleteAccount(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.log.Info("deleted account", slog.String("id", id))
	return nil
}

// Extend увеличивает длительность лицензии на additionalDays.
// Наследует семантику Update: новая дата истечения отсчитывается
// от момента вызова с суммарной длительностью.
func (s *Service) Extend(ctx context.Context, id string, additionalDays int) error {
	account, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrNotFound
	}

	newDuration := account.LicenseDuration + additionalDays
	return s.Update(ctx, id, models.UpdateAccountData{
		LicenseDuration: &newDuration,
	})
}

// License возвращает проекцию состояния лицензии учетной записи.
func (s *Service) License(ctx context.Context, id string) (*models.LicenseInfo, error) {
	account, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotFound
	}

	summary := license.Evaluate(account.LicenseExpiry, time.Now().UTC(), s.warningDays)
	return &models.LicenseInfo{
		AccountID:       account.ID,
		CompanyName:     account.CompanyName,
		LicenseExpiry:   account.LicenseExpiry,
		LicenseDuration: account.LicenseDuration,
		IsActive:        account.IsActive,
		DaysRemaining:   summary.DaysRemaining,
		Status:          string(summary.Status),
	}, nil
}
