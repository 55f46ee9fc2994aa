package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
)

var ErrorNotFound = errors.New("not found")

const selectTasks = `
		SELECT id, title, description, date, status, created_at
		FROM tasks`

const taskColumns = "id, title, description, date, status, created_at"

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo { // Конструктор
	return &TaskRepo{
		pool: pool,
	}
}

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Date, &t.Status, &t.CreatedAt)
	return t, err
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	created, err := scanTask(r.pool.QueryRow(ctx, `
		INSERT INTO tasks (id, title, description, date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+taskColumns,
		uuid.New(), t.Title, t.Description, t.Date, t.Status,
	))
	return created, err
}

func (r *TaskRepo) FindOne(ctx context.Context, id uuid.UUID) (model.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, selectTasks+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

func (r *TaskRepo) Find(ctx context.Context, filter model.TaskFilter, sort model.TaskSort) ([]model.Task, error) {
	query, args := buildSelect(filter, sort)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update перезаписывает изменяемые поля одним запросом, created_at не трогаем
func (r *TaskRepo) Update(ctx context.Context, t model.Task) (model.Task, error) {
	updated, err := scanTask(r.pool.QueryRow(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, date = $4, status = $5
		WHERE id = $1
		RETURNING `+taskColumns,
		t.ID, t.Title, t.Description, t.Date, t.Status,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return updated, err
}

func (r *TaskRepo) FindOneAndDelete(ctx context.Context, id uuid.UUID) (model.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx, `
		DELETE FROM tasks WHERE id = $1
		RETURNING `+taskColumns, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

// DeleteMany удаляет задачи с перечисленными id. Пустой список ничего не удаляет
func (r *TaskRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	where := buildWhere(model.TaskFilter{IDs: ids})
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks"+where.String(), where.args...)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *TaskRepo) SaveIdempotencyKey(ctx context.Context, key string, resourceID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO idempotency_keys (key, resource_id) VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING
	`, key, resourceID)
	return err
}

func (r *TaskRepo) GetIdempotencyKey(ctx context.Context, key string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT resource_id FROM idempotency_keys WHERE key = $1
	`, key).Scan(&id)

	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrorNotFound
	}
	return id, err
}

// PurgeIdempotencyKeys удаляет ключи, созданные раньше cutoff
func (r *TaskRepo) PurgeIdempotencyKeys(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM idempotency_keys WHERE created_at < $1", cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
