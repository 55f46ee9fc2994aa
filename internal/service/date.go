package service

import (
	"time"

	"github.com/araddon/dateparse"

	"github.com/BuzzLyutic/task-tracker-api/internal/apperror"
	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

// parseDate принимает ISO-8601, RFC1123, только дату, epoch и прочие
// распространенные форматы. Зона по умолчанию - UTC.
func parseDate(raw string) (time.Time, error) {
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}, apperror.Wrap(apperror.KeyDateValidationError, err)
	}
	// timestamptz хранит микросекунды
	return t.UTC().Truncate(time.Microsecond), nil
}

// parseOptionalDate возвращает nil, если дата не передана
func parseOptionalDate(raw model.DateInput) (*time.Time, error) {
	if raw.Empty() {
		return nil, nil
	}
	t, err := parseDate(string(raw))
	if err != nil {
		return nil, err
	}
	return &t, nil
}
