package apperror

import "strings"

// Mode определяет поведение диспетчера для непредвиденных ошибок
type Mode string

const (
	ModeDev        Mode = "dev"
	ModeTest       Mode = "test"
	ModeProduction Mode = "production"
)

// ParseMode - любое неизвестное значение считается ModeProduction
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDev:
		return ModeDev
	case ModeTest:
		return ModeTest
	default:
		return ModeProduction
	}
}
