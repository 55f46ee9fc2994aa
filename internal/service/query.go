package service

import (
	"regexp"
	"strings"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

// ListQuery - параметры строки запроса списка задач
type ListQuery struct {
	Status      string
	Search      string
	CreateLTE   string
	CreateGTE   string
	CompleteLTE string
	CompleteGTE string
	Sort        string
}

var statusPattern = regexp.MustCompile(`(?i)^(?:active|done)$`)

var sortKeys = map[string]model.TaskSort{
	"a-z":                    {Field: model.SortTitle},
	"z-a":                    {Field: model.SortTitle, Desc: true},
	"creation_date_oldest":   {Field: model.SortCreatedAt},
	"creation_date_newest":   {Field: model.SortCreatedAt, Desc: true},
	"completion_date_oldest": {Field: model.SortDate},
	"completion_date_newest": {Field: model.SortDate, Desc: true},
}

// buildFilter собирает фильтр из недоверенных параметров. Каждый параметр
// задает свое поле фильтра, отсутствующий параметр ничего не ограничивает.
func buildFilter(q ListQuery) (model.TaskFilter, error) {
	var filter model.TaskFilter

	// Неизвестный статус молча игнорируем
	if statusPattern.MatchString(q.Status) {
		status := strings.ToLower(q.Status)
		filter.Status = &status
	}

	if q.Search != "" {
		search := q.Search
		filter.Search = &search
	}

	createdAt, err := buildRange(q.CreateGTE, q.CreateLTE)
	if err != nil {
		return filter, err
	}
	filter.CreatedAt = createdAt

	date, err := buildRange(q.CompleteGTE, q.CompleteLTE)
	if err != nil {
		return filter, err
	}
	filter.Date = date

	return filter, nil
}

func buildRange(gte, lte string) (*model.TimeRange, error) {
	if gte == "" && lte == "" {
		return nil, nil
	}

	r := &model.TimeRange{}
	if gte != "" {
		t, err := parseDate(gte)
		if err != nil {
			return nil, err
		}
		r.GTE = &t
	}
	if lte != "" {
		t, err := parseDate(lte)
		if err != nil {
			return nil, err
		}
		r.LTE = &t
	}
	return r, nil
}

// buildSort - для неизвестного ключа пустая сортировка, то есть порядок по умолчанию
func buildSort(key string) model.TaskSort {
	return sortKeys[key]
}
