// Package watcher содержит фоновый сервис, который раз в сутки
// находит лицензии, входящие в предупредительное окно, и лицензии,
// истекшие сегодня, и публикует уведомления в брокер.
package watcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/licenseflow/license-portal/internal/lib/license"
	"github.com/licenseflow/license-portal/internal/lib/sl"
	"github.com/licenseflow/license-portal/internal/models"
	"github.com/licenseflow/license-portal/internal/rabbitmq"
)

// LicenseRepository определяет выборки учетных записей по дате истечения лицензии.
type LicenseRepository interface {
	FindAccountsEnteringWarningWindow(ctx context.Context, warningDays int) ([]*models.Account, error)
	FindAccountsExpiredToday(ctx context.Context) ([]*models.Account, error)
}

// Service периодически сканирует лицензии и публикует уведомления.
type Service struct {
	repo        LicenseRepository
	log         *slog.Logger
	warningDays int
}

// New создает новый экземпляр Service.
func New(repo LicenseRepository, log *slog.Logger, warningDays int) *Service {
	if warningDays <= 0 {
		warningDays = license.DefaultWarningDays
	}
	return &Service{
		repo:        repo,
		log:         log,
		warningDays: warningDays,
	}
}

// WatchExpiringLicenses публикует уведомления о лицензиях, входящих
// сегодня в предупредительное окно. Первый проход выполняется сразу,
// далее раз в сутки до отмены контекста.
func (s *Service) WatchExpiringLicenses(ctx context.Context, channel rabbitmq.Publisher) {
	s.runWatchExpiringLicenses(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runWatchExpiringLicenses(ctx, channel)
		}
	}
}

func (s *Service) runWatchExpiringLicenses(ctx context.Context, channel rabbitmq.Publisher) {
	s.log.Info("starting scan for licenses entering warning window")
	accounts, err := s.repo.FindAccountsEnteringWarningWindow(ctx, s.warningDays)
	if err != nil {
		s.log.Error("failed to find accounts", sl.Err(err))
		return
	}
	if len(accounts) == 0 {
		s.log.Info("no licenses entering warning window")
		return
	}
	s.log.Info("found licenses entering warning window", "count", len(accounts))
	for _, account := range accounts {
		err = rabbitmq.PublishMessage(channel, rabbitmq.Exchange,
			rabbitmq.RoutingKeyExpiring, s.noticeFor(account))
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}

// WatchExpiredLicenses публикует уведомления о лицензиях, истекших сегодня.
func (s *Service) WatchExpiredLicenses(ctx context.Context, channel rabbitmq.Publisher) {
	s.runWatchExpiredLicenses(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runWatchExpiredLicenses(ctx, channel)
		}
	}
}

func (s *Service) runWatchExpiredLicenses(ctx context.Context, channel rabbitmq.Publisher) {
	s.log.Info("starting scan for licenses expired today")
	accounts, err := s.repo.FindAccountsExpiredToday(ctx)
	if err != nil {
		s.log.Error("failed to find accounts", sl.Err(err))
		return
	}
	if len(accounts) == 0 {
		s.log.Info("no licenses expired today")
		return
	}
	s.log.Info("found licenses expired today", "count", len(accounts))
	for _, account := range accounts {
		err = rabbitmq.PublishMessage(channel, rabbitmq.Exchange,
			rabbitmq.RoutingKeyExpired, s.noticeFor(account))
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}

func (s *Service) noticeFor(account *models.Account) models.ExpiryNotice {
	return models.ExpiryNotice{
		AccountID:     account.ID,
		Email:         account.Email,
		CompanyName:   account.CompanyName,
		ContactPerson: account.ContactPerson,
		LicenseExpiry: account.LicenseExpiry,
		DaysRemaining: license.DaysRemaining(account.LicenseExpiry, time.Now().UTC()),
	}
}
