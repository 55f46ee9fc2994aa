package repo

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereBuilder собирает условия WHERE с позиционными параметрами
type whereBuilder struct {
	conds []string
	args  []interface{}
}

// add appends cond, where every %[1]d is replaced by the placeholder index of arg.
func (b *whereBuilder) add(cond string, arg interface{}) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, fmt.Sprintf(cond, len(b.args)))
}

func (b *whereBuilder) rangeOn(column string, r *model.TimeRange) {
	if r == nil {
		return
	}
	if r.GTE != nil {
		b.add(column+" >= $%[1]d", *r.GTE)
	}
	if r.LTE != nil {
		b.add(column+" <= $%[1]d", *r.LTE)
	}
}

func (b *whereBuilder) String() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

func buildWhere(filter model.TaskFilter) *whereBuilder {
	b := &whereBuilder{}

	if len(filter.IDs) > 0 {
		b.add("id = ANY($%[1]d::uuid[])", uuidStrings(filter.IDs))
	}
	if filter.Status != nil {
		b.add("status = $%[1]d", *filter.Status)
	}
	if filter.Search != nil {
		pattern := "%" + likeEscaper.Replace(*filter.Search) + "%"
		b.add("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", pattern)
	}
	b.rangeOn("created_at", filter.CreatedAt)
	b.rangeOn("date", filter.Date)

	return b
}

// orderBy - без явной сортировки возвращаем порядок вставки.
// NULL в date идут первыми по возрастанию и последними по убыванию.
func orderBy(sort model.TaskSort) string {
	var column string
	switch sort.Field {
	case model.SortTitle:
		column = "title"
	case model.SortCreatedAt:
		column = "created_at"
	case model.SortDate:
		column = "date"
	default:
		return " ORDER BY created_at, id"
	}

	if sort.Desc {
		return fmt.Sprintf(" ORDER BY %s DESC NULLS LAST, id", column)
	}
	return fmt.Sprintf(" ORDER BY %s ASC NULLS FIRST, id", column)
}

func buildSelect(filter model.TaskFilter, sort model.TaskSort) (string, []interface{}) {
	where := buildWhere(filter)
	return selectTasks + where.String() + orderBy(sort), where.args
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
