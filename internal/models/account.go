// Package models содержит доменные структуры лицензионного портала:
// учетные записи компаний, администраторов и вспомогательные типы
// для приёма данных из JSON-запросов.
package models

import "time"

// Account представляет учетную запись компании с ограниченной по времени лицензией.
type Account struct {
	ID              string     // Уникальный идентификатор учетной записи
	Email           string     // Электронная почта (уникальная среди учетных записей)
	PasswordHash    string     // Хэш пароля учетной записи
	CompanyName     string     // Название компании
	ContactPerson   string     // Контактное лицо
	Phone           string     // Телефон (опционально)
	Address         string     // Адрес (опционально)
	LicenseExpiry   time.Time  // Дата истечения лицензии
	LicenseDuration int        // Длительность лицензии в днях (информационное поле)
	IsActive        bool       // Флаг активности, блокирует вход при false
	CreatedAt       time.Time  // Дата создания
	UpdatedAt       time.Time  // Дата последнего изменения
	LastLogin       *time.Time // Дата последнего входа, nil если входов не было
}

// CreateAccountData используется для приёма данных из JSON-запроса
// на создание учетной записи. Пароль приходит открытым текстом и
// хэшируется на границе сервиса.
type CreateAccountData struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	CompanyName     string `json:"company_name" validate:"required"`
	ContactPerson   string `json:"contact_person" validate:"required"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	LicenseDuration int    `json:"license_duration" validate:"required,gt=0"`
}

// UpdateAccountData описывает частичное обновление учетной записи.
// Nil-поля не изменяются. Если задано LicenseDuration, дата истечения
// лицензии пересчитывается от момента обновления.
type UpdateAccountData struct {
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	CompanyName     *string `json:"company_name,omitempty"`
	ContactPerson   *string `json:"contact_person,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	LicenseDuration *int    `json:"license_duration,omitempty" validate:"omitempty,gt=0"`
	IsActive        *bool   `json:"is_active,omitempty"`
}
