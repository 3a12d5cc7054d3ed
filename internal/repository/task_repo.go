package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Rsgr172026/KanbanMate/internal/model"
	"github.com/Rsgr172026/KanbanMate/pkg/metrics"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

// Insert persists a new task.
func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	r.logger.Debug("Inserting task",
		zap.String("owner_id", t.OwnerID),
		zap.String("title", t.Title),
		zap.String("status", t.Status),
	)
	start := time.Now()
	query := `
        INSERT INTO tasks (id, owner_id, title, description, priority, due_date, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `
	_, err := r.db.Exec(ctx, query,
		t.ID,
		t.OwnerID,
		t.Title,
		t.Description,
		t.Priority,
		t.DueDate,
		t.Status,
		t.CreatedAt,
		t.UpdatedAt,
	)
	metrics.RecordDBQueryDuration("insert", "tasks", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.String("owner_id", t.OwnerID),
		)
		return err
	}
	r.logger.Info("Task inserted successfully",
		zap.String("task_id", t.ID),
		zap.String("owner_id", t.OwnerID),
	)
	return nil
}

// ListByOwner returns the owner's tasks, newest first. A non-empty
// keyword narrows the result to titles containing it, case-insensitive.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID, keyword string) ([]model.Task, error) {
	r.logger.Debug("Listing tasks for owner",
		zap.String("owner_id", ownerID),
		zap.String("keyword", keyword),
	)
	start := time.Now()

	query := `
        SELECT id, owner_id, title, description, priority, due_date, status, created_at, updated_at
        FROM tasks
        WHERE owner_id = $1
        ORDER BY created_at DESC
    `
	args := []any{ownerID}
	if keyword != "" {
		query = `
        SELECT id, owner_id, title, description, priority, due_date, status, created_at, updated_at
        FROM tasks
        WHERE owner_id = $1 AND title ILIKE '%' || $2 || '%'
        ORDER BY created_at DESC
    `
		args = append(args, keyword)
	}

	rows, err := r.db.Query(ctx, query, args...)
	metrics.RecordDBQueryDuration("select", "tasks", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to query tasks",
			zap.Error(err),
			zap.String("owner_id", ownerID),
		)
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID,
			&t.OwnerID,
			&t.Title,
			&t.Description,
			&t.Priority,
			&t.DueDate,
			&t.Status,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan task row",
				zap.Error(err),
				zap.String("owner_id", ownerID),
			)
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Info("Tasks listed successfully",
		zap.String("owner_id", ownerID),
		zap.Int("count", len(tasks)),
	)
	return tasks, nil
}

// FindByID returns the task for an id, or nil when none exists.
func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	start := time.Now()
	query := `
        SELECT id, owner_id, title, description, priority, due_date, status, created_at, updated_at
        FROM tasks
        WHERE id = $1
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.DueDate,
		&t.Status,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	metrics.RecordDBQueryDuration("select", "tasks", time.Since(start))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to query task by id",
			zap.Error(err),
			zap.String("task_id", id),
		)
		return nil, err
	}
	return &t, nil
}

// Update persists the mutable fields of a task.
func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	r.logger.Debug("Updating task",
		zap.String("task_id", t.ID),
		zap.String("status", t.Status),
	)
	start := time.Now()
	query := `
        UPDATE tasks
        SET title = $2, description = $3, priority = $4, due_date = $5, status = $6, updated_at = $7
        WHERE id = $1
    `
	result, err := r.db.Exec(ctx, query,
		t.ID,
		t.Title,
		t.Description,
		t.Priority,
		t.DueDate,
		t.Status,
		t.UpdatedAt,
	)
	metrics.RecordDBQueryDuration("update", "tasks", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to update task",
			zap.Error(err),
			zap.String("task_id", t.ID),
		)
		return err
	}
	r.logger.Info("Task updated successfully",
		zap.String("task_id", t.ID),
		zap.Int64("rows_affected", result.RowsAffected()),
	)
	return nil
}

// Delete removes a task by id.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	start := time.Now()
	query := `DELETE FROM tasks WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	metrics.RecordDBQueryDuration("delete", "tasks", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to delete task",
			zap.Error(err),
			zap.String("task_id", id),
		)
		return err
	}
	r.logger.Info("Task deleted",
		zap.String("task_id", id),
		zap.Int64("rows_affected", result.RowsAffected()),
	)
	return nil
}
