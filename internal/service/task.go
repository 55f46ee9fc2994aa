package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker-api/internal/apperror"
	"github.com/BuzzLyutic/task-tracker-api/internal/model"
	"github.com/BuzzLyutic/task-tracker-api/internal/repo"
)

// Caller - данные о вызывающем, приходят из auth middleware
type Caller struct {
	UserID string
}

type TaskService struct {
	repo   repo.TaskRepository
	logger *zap.Logger
}

func NewTaskService(repo repo.TaskRepository, logger *zap.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger}
}

func (s *TaskService) Create(ctx context.Context, in model.TaskInput, idempKey string) (model.Task, error) {
	date, err := parseOptionalDate(in.Date)
	if err != nil {
		return model.Task{}, err
	}

	if idempKey != "" { // Обеспечение идемпотентности - если ключ уже есть, возвращаем ранее созданную задачу
		if existingID, err := s.repo.GetIdempotencyKey(ctx, idempKey); err == nil {
			return s.find(ctx, existingID)
		}
	}

	created, err := s.repo.Create(ctx, model.Task{
		Title:       in.Title,
		Description: in.Description,
		Date:        date,
		Status:      in.Status,
	})
	if err != nil {
		return created, fmt.Errorf("create task: %w", err)
	}

	if idempKey != "" {
		if err := s.repo.SaveIdempotencyKey(ctx, idempKey, created.ID); err != nil {
			s.logger.Warn("failed to save idempotency key", zap.String("key", idempKey), zap.Error(err))
		}
	}

	return created, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (model.Task, error) {
	taskID, err := parseID(id)
	if err != nil {
		return model.Task{}, err
	}
	return s.find(ctx, taskID)
}

// Update применяет только отличающиеся поля. title, description и status
// сравниваются как есть, включая отсутствие значения. date учитывается только
// если передана и не ложна, и сравнивается по моменту времени, а не по строке.
func (s *TaskService) Update(ctx context.Context, id string, in model.TaskInput) (model.Task, error) {
	taskID, err := parseID(id)
	if err != nil {
		return model.Task{}, err
	}
	task, err := s.find(ctx, taskID)
	if err != nil {
		return task, err
	}

	dirty := false
	if !sameString(task.Title, in.Title) {
		task.Title = in.Title
		dirty = true
	}
	if !sameString(task.Description, in.Description) {
		task.Description = in.Description
		dirty = true
	}
	if !in.Date.Empty() {
		date, err := parseDate(string(in.Date))
		if err != nil {
			return model.Task{}, err
		}
		if task.Date == nil || !task.Date.Equal(date) {
			task.Date = &date
			dirty = true
		}
	}
	if !sameString(task.Status, in.Status) {
		task.Status = in.Status
		dirty = true
	}

	if !dirty {
		return model.Task{}, apperror.FromKey(apperror.KeyNothingToUpdate)
	}

	updated, err := s.repo.Update(ctx, task)
	if err != nil {
		return updated, notFound(err)
	}
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	taskID, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = s.repo.FindOneAndDelete(ctx, taskID)
	return notFound(err)
}

func (s *TaskService) DeleteBatch(ctx context.Context, ids []string) error {
	taskIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		taskID, err := uuid.Parse(id)
		if err != nil {
			return apperror.Wrap(apperror.KeyValidationError, err)
		}
		taskIDs = append(taskIDs, taskID)
	}

	deleted, err := s.repo.DeleteMany(ctx, taskIDs)
	if err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	if deleted == 0 {
		return apperror.FromKey(apperror.KeyNothingToRemove)
	}
	return nil
}

// List - caller.UserID пока не участвует в фильтрации.
// TODO: уточнить у продукта, нужно ли ограничивать выборку задачами владельца.
func (s *TaskService) List(ctx context.Context, caller Caller, q ListQuery) ([]model.Task, error) {
	s.logger.Debug("listing tasks", zap.String("user_id", caller.UserID))

	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}

	tasks, err := s.repo.Find(ctx, filter, buildSort(q.Sort))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	// Пустой список - это успех, ошибка только при отсутствии результата
	if tasks == nil {
		return nil, apperror.FromKey(apperror.KeyTaskNotFound)
	}
	return tasks, nil
}

func (s *TaskService) find(ctx context.Context, id uuid.UUID) (model.Task, error) {
	task, err := s.repo.FindOne(ctx, id)
	if err != nil {
		return task, notFound(err)
	}
	return task, nil
}

// parseID - некорректный id не может существовать, значит задача не найдена
func parseID(id string) (uuid.UUID, error) {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperror.Wrap(apperror.KeyTaskNotFound, err)
	}
	return taskID, nil
}

// notFound переводит repo.ErrorNotFound в ошибку реестра, остальное пробрасывает
func notFound(err error) error {
	if errors.Is(err, repo.ErrorNotFound) {
		return apperror.Wrap(apperror.KeyTaskNotFound, err)
	}
	return err
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
