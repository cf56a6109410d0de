// Package license реализует классификатор состояния лицензии.
// Все функции чистые и детерминированы относительно переданного времени,
// поэтому могут вызываться на каждый запрос без кэширования.
package license

import "time"

// Status — производное состояние лицензии, не хранится в базе.
type Status string

const (
	// StatusActive — лицензия действует и до предупредительного окна ещё далеко.
	StatusActive Status = "active"
	// StatusExpiring — лицензия действует, но истекает внутри предупредительного окна.
	StatusExpiring Status = "expiring"
	// StatusExpired — срок лицензии наступил или прошёл.
	StatusExpired Status = "expired"
)

// DefaultWarningDays — предупредительное окно по умолчанию, в днях.
const DefaultWarningDays = 7

const day = 24 * time.Hour

// DaysRemaining возвращает целое число дней до истечения лицензии,
// усечённое к нулю. Для уже истекшей лицензии значение неположительное.
func DaysRemaining(expiry, now time.Time) int {
	return int(expiry.Sub(now) / day)
}

// Classify определяет состояние лицензии на момент now.
//
// Граница истечения включающая: expiry == now уже expired.
// Граница предупредительного окна исключающая: expiry == now + warningDays
// ещё active. warningDays <= 0 трактуется как DefaultWarningDays.
func Classify(expiry, now time.Time, warningDays int) Status {
	if warningDays <= 0 {
		warningDays = DefaultWarningDays
	}
	if !expiry.After(now) {
		return StatusExpired
	}
	if expiry.Before(now.Add(time.Duration(warningDays) * day)) {
		return StatusExpiring
	}
	return StatusActive
}

// Summary объединяет состояние и число оставшихся дней для отображения.
type Summary struct {
	Status        Status
	DaysRemaining int
}

// Evaluate вычисляет Summary за один вызов.
func Evaluate(expiry, now time.Time, warningDays int) Summary {
	return Summary{
		Status:        Classify(expiry, now, warningDays),
		DaysRemaining: DaysRemaining(expiry, now),
	}
}
