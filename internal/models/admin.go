package models

import "time"

// Admin представляет учетную запись администратора портала.
// Администраторы хранятся отдельно от учетных записей компаний
// и не имеют лицензии и флага активности.
type Admin struct {
	ID           string    // Уникальный идентификатор администратора
	Email        string    // Электронная почта
	PasswordHash string    // Хэш пароля
	Name         string    // Отображаемое имя
	CreatedAt    time.Time // Дата создания
}
