package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker-api/internal/apperror"
	"github.com/BuzzLyutic/task-tracker-api/internal/model"
	"github.com/BuzzLyutic/task-tracker-api/internal/repo"
)

// MockTaskRepository - мок репозитория
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) FindOne(ctx context.Context, id uuid.UUID) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Find(ctx context.Context, filter model.TaskFilter, sort model.TaskSort) ([]model.Task, error) {
	args := m.Called(ctx, filter, sort)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) FindOneAndDelete(ctx context.Context, id uuid.UUID) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) SaveIdempotencyKey(ctx context.Context, key string, resourceID uuid.UUID) error {
	args := m.Called(ctx, key, resourceID)
	return args.Error(0)
}

func (m *MockTaskRepository) GetIdempotencyKey(ctx context.Context, key string) (uuid.UUID, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func newService(m *MockTaskRepository) *TaskService {
	return NewTaskService(m, zap.NewNop())
}

func TestTaskService_Create(t *testing.T) {
	createdID := uuid.New()

	tests := []struct {
		name      string
		input     model.TaskInput
		idempKey  string
		setupMock func(*MockTaskRepository)
		wantErr   apperror.Key
		check     func(*testing.T, model.Task)
	}{
		{
			name:  "without date stores no date",
			input: model.TaskInput{Title: strPtr("A")},
			setupMock: func(m *MockTaskRepository) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(t model.Task) bool {
					return *t.Title == "A" && t.Date == nil
				})).Return(model.Task{ID: createdID, Title: strPtr("A")}, nil)
			},
			check: func(t *testing.T, task model.Task) {
				assert.Equal(t, createdID, task.ID)
				assert.Nil(t, task.Date)
			},
		},
		{
			name:  "valid date is parsed",
			input: model.TaskInput{Title: strPtr("A"), Date: "2024-03-01T10:00:00Z"},
			setupMock: func(m *MockTaskRepository) {
				want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
				m.On("Create", mock.Anything, mock.MatchedBy(func(t model.Task) bool {
					return t.Date != nil && t.Date.Equal(want)
				})).Return(model.Task{ID: createdID, Date: timePtr(want)}, nil)
			},
		},
		{
			name:      "invalid date fails without creating",
			input:     model.TaskInput{Title: strPtr("A"), Date: "not-a-date"},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   apperror.KeyDateValidationError,
		},
		{
			name:     "idempotency - key exists",
			input:    model.TaskInput{Title: strPtr("A")},
			idempKey: "key-123",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetIdempotencyKey", mock.Anything, "key-123").Return(createdID, nil)
				m.On("FindOne", mock.Anything, createdID).Return(model.Task{ID: createdID}, nil)
			},
			check: func(t *testing.T, task model.Task) {
				assert.Equal(t, createdID, task.ID)
			},
		},
		{
			name:     "idempotency - new key",
			input:    model.TaskInput{Title: strPtr("A")},
			idempKey: "key-456",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetIdempotencyKey", mock.Anything, "key-456").Return(uuid.Nil, repo.ErrorNotFound)
				m.On("Create", mock.Anything, mock.Anything).Return(model.Task{ID: createdID}, nil)
				m.On("SaveIdempotencyKey", mock.Anything, "key-456", createdID).Return(nil)
			},
		},
		{
			name:     "idempotency - failing save does not fail create",
			input:    model.TaskInput{Title: strPtr("A")},
			idempKey: "key-789",
			setupMock: func(m *MockTaskRepository) {
				m.On("GetIdempotencyKey", mock.Anything, "key-789").Return(uuid.Nil, repo.ErrorNotFound)
				m.On("Create", mock.Anything, mock.Anything).Return(model.Task{ID: createdID}, nil)
				m.On("SaveIdempotencyKey", mock.Anything, "key-789", createdID).Return(errors.New("db down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			result, err := newService(mockRepo).Create(context.Background(), tt.input, tt.idempKey)

			if tt.wantErr != "" {
				assert.True(t, apperror.IsKey(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
				if tt.check != nil {
					tt.check(t, result)
				}
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_Create_RepoErrorIsUnclassified(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(model.Task{}, errors.New("connection reset"))

	_, err := newService(mockRepo).Create(context.Background(), model.TaskInput{}, "")

	require.Error(t, err)
	var appErr *apperror.Error
	assert.False(t, errors.As(err, &appErr), "infrastructure errors must stay unclassified")
}

func TestTaskService_Get(t *testing.T) {
	id := uuid.New()

	t.Run("existing task", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindOne", mock.Anything, id).Return(model.Task{ID: id, Title: strPtr("A")}, nil)

		task, err := newService(mockRepo).Get(context.Background(), id.String())

		require.NoError(t, err)
		assert.Equal(t, "A", *task.Title)
	})

	t.Run("missing task", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindOne", mock.Anything, id).Return(model.Task{}, repo.ErrorNotFound)

		_, err := newService(mockRepo).Get(context.Background(), id.String())

		assert.True(t, apperror.IsKey(err, apperror.KeyTaskNotFound))
		assert.ErrorIs(t, err, repo.ErrorNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)

		_, err := newService(mockRepo).Get(context.Background(), "not-a-uuid")

		assert.True(t, apperror.IsKey(err, apperror.KeyTaskNotFound))
		mockRepo.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
	})
}

func TestTaskService_Update(t *testing.T) {
	id := uuid.New()
	storedDate := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stored := func() model.Task {
		return model.Task{
			ID:          id,
			Title:       strPtr("Title"),
			Description: strPtr("Description"),
			Status:      strPtr("active"),
			Date:        timePtr(storedDate),
		}
	}
	same := model.TaskInput{
		Title:       strPtr("Title"),
		Description: strPtr("Description"),
		Status:      strPtr("active"),
	}

	tests := []struct {
		name       string
		input      model.TaskInput
		wantErr    apperror.Key
		wantUpdate func(model.Task) bool
	}{
		{
			name:    "identical fields without date",
			input:   same,
			wantErr: apperror.KeyNothingToUpdate,
		},
		{
			name: "same instant in another representation",
			input: model.TaskInput{
				Title:       strPtr("Title"),
				Description: strPtr("Description"),
				Status:      strPtr("active"),
				Date:        "2024-05-01T15:00:00+03:00",
			},
			wantErr: apperror.KeyNothingToUpdate,
		},
		{
			name: "sub-microsecond difference is not a change",
			input: model.TaskInput{
				Title:       strPtr("Title"),
				Description: strPtr("Description"),
				Status:      strPtr("active"),
				Date:        "2024-05-01T12:00:00.000000400Z",
			},
			wantErr: apperror.KeyNothingToUpdate,
		},
		{
			name: "invalid date",
			input: model.TaskInput{
				Title: strPtr("Changed"),
				Date:  "not-a-date",
			},
			wantErr: apperror.KeyDateValidationError,
		},
		{
			name: "title changed",
			input: model.TaskInput{
				Title:       strPtr("Changed"),
				Description: strPtr("Description"),
				Status:      strPtr("active"),
			},
			wantUpdate: func(t model.Task) bool {
				return *t.Title == "Changed" && t.Date.Equal(storedDate)
			},
		},
		{
			name: "status is free-form on write",
			input: model.TaskInput{
				Title:       strPtr("Title"),
				Description: strPtr("Description"),
				Status:      strPtr("archived"),
			},
			wantUpdate: func(t model.Task) bool {
				return *t.Status == "archived"
			},
		},
		{
			name: "omitted description clears it",
			input: model.TaskInput{
				Title:  strPtr("Title"),
				Status: strPtr("active"),
			},
			wantUpdate: func(t model.Task) bool {
				return t.Description == nil && *t.Title == "Title"
			},
		},
		{
			name: "new date",
			input: model.TaskInput{
				Title:       strPtr("Title"),
				Description: strPtr("Description"),
				Status:      strPtr("active"),
				Date:        "2024-06-01",
			},
			wantUpdate: func(t model.Task) bool {
				return t.Date.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			mockRepo.On("FindOne", mock.Anything, id).Return(stored(), nil)
			if tt.wantUpdate != nil {
				mockRepo.On("Update", mock.Anything, mock.MatchedBy(tt.wantUpdate)).
					Return(model.Task{ID: id}, nil)
			}

			_, err := newService(mockRepo).Update(context.Background(), id.String(), tt.input)

			if tt.wantErr != "" {
				assert.True(t, apperror.IsKey(err, tt.wantErr), "got %v", err)
				mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_Update_DateOnStoredNil(t *testing.T) {
	id := uuid.New()
	mockRepo := new(MockTaskRepository)
	mockRepo.On("FindOne", mock.Anything, id).Return(model.Task{ID: id, Title: strPtr("T")}, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(t model.Task) bool {
		return t.Date != nil
	})).Return(model.Task{ID: id}, nil)

	_, err := newService(mockRepo).Update(context.Background(), id.String(), model.TaskInput{
		Title: strPtr("T"),
		Date:  "1700000000000",
	})

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_Update_NotFound(t *testing.T) {
	id := uuid.New()
	mockRepo := new(MockTaskRepository)
	mockRepo.On("FindOne", mock.Anything, id).Return(model.Task{}, repo.ErrorNotFound)

	_, err := newService(mockRepo).Update(context.Background(), id.String(), model.TaskInput{Title: strPtr("x")})

	assert.True(t, apperror.IsKey(err, apperror.KeyTaskNotFound))
}

func TestTaskService_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("deleted", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindOneAndDelete", mock.Anything, id).Return(model.Task{ID: id}, nil)

		assert.NoError(t, newService(mockRepo).Delete(context.Background(), id.String()))
	})

	t.Run("missing", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("FindOneAndDelete", mock.Anything, id).Return(model.Task{}, repo.ErrorNotFound)

		err := newService(mockRepo).Delete(context.Background(), id.String())
		assert.True(t, apperror.IsKey(err, apperror.KeyTaskNotFound))
	})
}

func TestTaskService_DeleteBatch(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	raw := []string{ids[0].String(), ids[1].String()}

	tests := []struct {
		name      string
		ids       []string
		setupMock func(*MockTaskRepository)
		wantErr   apperror.Key
	}{
		{
			name: "removed some",
			ids:  raw,
			setupMock: func(m *MockTaskRepository) {
				m.On("DeleteMany", mock.Anything, ids).Return(int64(1), nil)
			},
		},
		{
			name: "nothing removed",
			ids:  raw,
			setupMock: func(m *MockTaskRepository) {
				m.On("DeleteMany", mock.Anything, ids).Return(int64(0), nil)
			},
			wantErr: apperror.KeyNothingToRemove,
		},
		{
			name:      "malformed id",
			ids:       []string{"nope"},
			setupMock: func(m *MockTaskRepository) {},
			wantErr:   apperror.KeyValidationError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTaskRepository)
			tt.setupMock(mockRepo)

			err := newService(mockRepo).DeleteBatch(context.Background(), tt.ids)

			if tt.wantErr != "" {
				assert.True(t, apperror.IsKey(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTaskService_List(t *testing.T) {
	caller := Caller{UserID: "user-1"}

	t.Run("no params means no constraints", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		all := []model.Task{{ID: uuid.New()}, {ID: uuid.New()}}
		mockRepo.On("Find", mock.Anything, model.TaskFilter{}, model.TaskSort{}).Return(all, nil)

		tasks, err := newService(mockRepo).List(context.Background(), caller, ListQuery{})

		require.NoError(t, err)
		assert.Equal(t, all, tasks)
	})

	t.Run("empty result is success", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]model.Task{}, nil)

		tasks, err := newService(mockRepo).List(context.Background(), caller, ListQuery{})

		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})

	t.Run("nil result is task not found", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

		_, err := newService(mockRepo).List(context.Background(), caller, ListQuery{})

		assert.True(t, apperror.IsKey(err, apperror.KeyTaskNotFound))
	})

	t.Run("invalid range bound", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)

		_, err := newService(mockRepo).List(context.Background(), caller, ListQuery{CreateLTE: "not-a-date"})

		assert.True(t, apperror.IsKey(err, apperror.KeyDateValidationError))
		mockRepo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("filter and sort are passed through", func(t *testing.T) {
		mockRepo := new(MockTaskRepository)
		mockRepo.On("Find", mock.Anything, mock.MatchedBy(func(f model.TaskFilter) bool {
			return f.Status != nil && *f.Status == "done" && f.Search != nil && *f.Search == "milk"
		}), model.TaskSort{Field: model.SortTitle, Desc: true}).Return([]model.Task{}, nil)

		_, err := newService(mockRepo).List(context.Background(), caller, ListQuery{
			Status: "DONE",
			Search: "milk",
			Sort:   "z-a",
		})

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}
