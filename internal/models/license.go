package models

import "time"

// LicenseInfo — проекция состояния лицензии учетной записи для отображения.
// Не хранится в базе, вычисляется на каждый запрос.
type LicenseInfo struct {
	AccountID       string    `json:"account_id"`
	CompanyName     string    `json:"company_name"`
	LicenseExpiry   time.Time `json:"license_expiry"`
	LicenseDuration int       `json:"license_duration"`
	IsActive        bool      `json:"is_active"`
	DaysRemaining   int       `json:"days_remaining"`
	Status          string    `json:"status"` // active, expiring или expired
}

// ExpiryNotice — сообщение о приближающемся или наступившем истечении
// лицензии, публикуемое наблюдателем в очередь уведомлений.
type ExpiryNotice struct {
	AccountID     string    `json:"account_id"`
	Email         string    `json:"email"`
	CompanyName   string    `json:"company_name"`
	ContactPerson string    `json:"contact_person"`
	LicenseExpiry time.Time `json:"license_expiry"`
	DaysRemaining int       `json:"days_remaining"`
}
