package repository

import (
	"context"
	"fmt"

	"github.com/licenseflow/license-portal/internal/models"
)

// CountAdmins возвращает количество администраторов.
// Используется идемпотентным шагом начального заполнения.
func (s *Storage) CountAdmins(ctx context.Context) (int, error) {
	const op = "storage.CountAdmins"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CreateAdmin сохраняет нового администратора и возвращает его ID.
func (s *Storage) CreateAdmin(ctx context.Context, admin models.Admin) (string, error) {
	const op = "storage.CreateAdmin"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO admins (email, password_hash, name)
			  VALUES ($1, $2, $3)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		admin.Email, admin.PasswordHash, admin.Name).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetAdminByEmail возвращает администратора по email.
func (s *Storage) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	const op = "storage.GetAdminByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, password_hash, name, created_at
			  FROM admins
			  WHERE email = $1
			  LIMIT 1`
	a := &models.Admin{}
	row := s.DB.QueryRowContext(ctx, query, email)
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}
