package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

// TaskRepository определяет интерфейс для работы с задачами.
// Каждая мутация - одна атомарная операция по id.
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	FindOne(ctx context.Context, id uuid.UUID) (model.Task, error)
	Find(ctx context.Context, filter model.TaskFilter, sort model.TaskSort) ([]model.Task, error)
	Update(ctx context.Context, t model.Task) (model.Task, error)
	FindOneAndDelete(ctx context.Context, id uuid.UUID) (model.Task, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
	SaveIdempotencyKey(ctx context.Context, key string, resourceID uuid.UUID) error
	GetIdempotencyKey(ctx context.Context, key string) (uuid.UUID, error)
}
