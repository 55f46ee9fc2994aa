package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Task - единственная сущность предметной области.
// Title, Description и Status могут отсутствовать (nil), Date хранится только валидной.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Status      *string    `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TaskInput - тело запросов create и update
type TaskInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Date        DateInput `json:"date"`
	Status      *string   `json:"status"`
}

// DateInput - дата в том виде, в котором ее прислал клиент.
// Числа хранятся текстом (epoch в миллисекундах). Ложные значения
// (null, false, 0, "") означают отсутствие даты.
type DateInput string

func (d *DateInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*d = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = DateInput(s)
		return nil
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		if f, err := n.Float64(); err == nil && f == 0 {
			*d = ""
			return nil
		}
		*d = DateInput(n.String())
		return nil
	}
	// true, объекты и массивы оставляем как есть: разбор даты их отклонит
	*d = DateInput(data)
	return nil
}

// Empty - дата не передана или ложна
func (d DateInput) Empty() bool {
	return d == ""
}

type TimeRange struct {
	GTE *time.Time
	LTE *time.Time
}

// TaskFilter - условия выборки, все заданные поля объединяются через AND
type TaskFilter struct {
	IDs       []uuid.UUID
	Status    *string
	Search    *string
	CreatedAt *TimeRange
	Date      *TimeRange
}

type SortField string

const (
	SortNone      SortField = ""
	SortTitle     SortField = "title"
	SortCreatedAt SortField = "created_at"
	SortDate      SortField = "date"
)

type TaskSort struct {
	Field SortField
	Desc  bool
}
