// Package middlewarectx содержит HTTP-middleware портала: проверку
// JWT-токена сессии, требование роли администратора и ограничение
// частоты запросов. Данные сессии передаются дальше через контекст.
package middlewarectx

// Key — типизированный ключ контекста запроса.
type Key string

const (
	// Email — email вошедшей стороны (компании или администратора).
	Email Key = "email"
	// Role — роль сессии: admin или user.
	Role Key = "role"
	// UID — идентификатор учетной записи или администратора.
	UID Key = "uid"
)
