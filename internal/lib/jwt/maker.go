// Package jwt реализует генерацию и парсинг JWT токенов сессии портала.
//
// Токен выдается при успешном входе учетной записи или администратора
// и заменяет браузерную сессию: middleware проверяет его на каждом
// запросе и кладет данные владельца в контекст.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создает токен с email, ролью и идентификатором владельца.
	GenerateToken(email, role, uid string) (string, error)
	// ParseToken проверяет подпись и срок токена и возвращает его claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
