package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/licenseflow/license-portal/internal/models"
)

// AccountEmailExists проверяет, зарегистрирована ли учетная запись с таким email.
// Уникальность email — инвариант уровня сервиса, а не ограничение схемы.
func (s *Storage) AccountEmailExists(ctx context.Context, email string) (bool, error) {
	const op = "storage.AccountEmailExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateAccount сохраняет новую учетную запись и возвращает её ID.
func (s *Storage) CreateAccount(ctx context.Context, account models.Account) (string, error) {
	const op = "storage.CreateAccount"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO accounts (email, password_hash, company_name, contact_person,
			      phone, address, license_expiry, license_duration, is_active,
			      created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		account.Email, account.PasswordHash, account.CompanyName, account.ContactPerson,
		account.Phone, account.Address, account.LicenseExpiry, account.LicenseDuration,
		account.IsActive, account.CreatedAt, account.UpdatedAt).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetAccount возвращает учетную запись по её ID.
func (s *Storage) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	const op = "storage.GetAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, company_name, contact_person, phone,
			      address, license_expiry, license_duration, is_active,
			      created_at, updated_at, last_login
			  FROM accounts
			  WHERE id = $1`
	a := &models.Account{}
	row := s.DB.QueryRowContext(ctx, query, id)

	var lastLogin sql.NullTime
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CompanyName, &a.ContactPerson,
		&a.Phone, &a.Address, &a.LicenseExpiry, &a.LicenseDuration, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt, &lastLogin); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if lastLogin.Valid {
		a.LastLogin = &lastLogin.Time
	}
	return a, nil
}

// GetAccountByEmail возвращает учетную запись по email.
func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const op = "storage.GetAccountByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, company_name, contact_person, phone,
			      address, license_expiry, license_duration, is_active,
			      created_at, updated_at, last_login
			  FROM accounts
			  WHERE email = $1
			  LIMIT 1`
	a := &models.Account{}
	row := s.DB.QueryRowContext(ctx, query, email)

	var lastLogin sql.NullTime
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CompanyName, &a.ContactPerson,
		&a.Phone, &a.Address, &a.LicenseExpiry, &a.LicenseDuration, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt, &lastLogin); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if lastLogin.Valid {
		a.LastLogin = &lastLogin.Time
	}
	return a, nil
}

// ListAccounts возвращает все учетные записи, новые первыми.
func (s *Storage) ListAccounts(ctx context.Context) ([]*models.Account, error) {
	const op = "storage.ListAccounts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, company_name, contact_person, phone,
			      address, license_expiry, license_duration, is_active,
			      created_at, updated_at, last_login
			  FROM accounts
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Account
	for rows.Next() {
		var a models.Account
		var lastLogin sql.NullTime
		if err = rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CompanyName, &a.ContactPerson,
			&a.Phone, &a.Address, &a.LicenseExpiry, &a.LicenseDuration, &a.IsActive,
			&a.CreatedAt, &a.UpdatedAt, &lastLogin); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if lastLogin.Valid {
			a.LastLogin = &lastLogin.Time
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateAccount выполняет частичное обновление: nil-поля не изменяются.
// licenseExpiry передается не-nil только когда сервис пересчитал дату
// истечения из новой длительности. Возвращает число затронутых строк.
func (s *Storage) UpdateAccount(ctx context.Context, id string, upd models.UpdateAccountData,
	licenseExpiry *time.Time, updatedAt time.Time) (int64, error) {
	const op = "storage.UpdateAccount"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET email = COALESCE($1, email),
			      company_name = COALESCE($2, company_name),
			      contact_person = COALESCE($3, contact_person),
			      phone = COALESCE($4, phone),
			      address = COALESCE($5, address),
			      license_duration = COALESCE($6, license_duration),
			      license_expiry = COALESCE($7, license_expiry),
			      is_active = COALESCE($8, is_active),
			      updated_at = $9
			  WHERE id = $10`
	res, err := s.DB.ExecContext(ctx, query,
		upd.Email, upd.CompanyName, upd.ContactPerson, upd.Phone, upd.Address,
		upd.LicenseDuration, licenseExpiry, upd.IsActive, updatedAt, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// DeleteAccount удаляет учетную запись и возвращает число удалённых строк.
func (s *Storage) DeleteAccount(ctx context.Context, id string) (int64, error) {
	const op = "storage.DeleteAccount"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// UpdateLastLogin фиксирует время успешного входа учетной записи.
func (s *Storage) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const op = "storage.UpdateLastLogin"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	_, err := s.DB.ExecContext(ctx, `UPDATE accounts SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindAccountsEnteringWarningWindow находит активные учетные записи,
// лицензия которых сегодня входит в предупредительное окно.
func (s *Storage) FindAccountsEnteringWarningWindow(ctx context.Context, warningDays int) ([]*models.Account, error) {
	const op = "storage.FindAccountsEnteringWarningWindow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, company_name, contact_person, phone,
			      address, license_expiry, license_duration, is_active,
			      created_at, updated_at, last_login
			  FROM accounts
			  WHERE is_active = true
			    AND license_expiry::DATE = CURRENT_DATE + $1;`
	return s.queryAccounts(ctx, op, query, warningDays)
}

// FindAccountsExpiredToday находит учетные записи с лицензией, истекшей сегодня.
func (s *Storage) FindAccountsExpiredToday(ctx context.Context) ([]*models.Account, error) {
	const op = "storage.FindAccountsExpiredToday"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, company_name, contact_person, phone,
			      address, license_expiry, license_duration, is_active,
			      created_at, updated_at, last_login
			  FROM accounts
			  WHERE license_expiry::DATE = CURRENT_DATE;`
	return s.queryAccounts(ctx, op, query)
}

func (s *Storage) queryAccounts(ctx context.Context, op, query string, args ...any) ([]*models.Account, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.Account
	for rows.Next() {
		var a models.Account
		var lastLogin sql.NullTime
		if err = rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CompanyName, &a.ContactPerson,
			&a.Phone, &a.Address, &a.LicenseExpiry, &a.LicenseDuration, &a.IsActive,
			&a.CreatedAt, &a.UpdatedAt, &lastLogin); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if lastLogin.Valid {
			a.LastLogin = &lastLogin.Time
		}
		result = append(result, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
