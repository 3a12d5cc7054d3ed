package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rsgr172026/KanbanMate/internal/cache"
	"github.com/Rsgr172026/KanbanMate/internal/events"
	"github.com/Rsgr172026/KanbanMate/internal/model"
	"github.com/Rsgr172026/KanbanMate/pkg/metrics"
)

// TaskPatch carries a partial update; nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *string
	DueDate     *time.Time
	Status      *string
}

// TaskService owns task lifecycle and the access rules around it: a
// task belongs to exactly one user, set at creation and never
// reassignable, and only that user may read, mutate or delete it.
// Status is a free three-state machine: any value of the enum may be
// set from any other in a single update.
type TaskService struct {
	tasks     TaskStore
	listCache *cache.TaskCache  // nil disables caching
	publisher *events.Publisher // nil disables the event feed
	logger    *zap.Logger
}

func NewTaskService(tasks TaskStore, listCache *cache.TaskCache, publisher *events.Publisher, logger *zap.Logger) *TaskService {
	return &TaskService{
		tasks:     tasks,
		listCache: listCache,
		publisher: publisher,
		logger:    logger,
	}
}

// canMutate is the single authorization predicate for task mutations.
func canMutate(userID string, t *model.Task) bool {
	return t.OwnerID == userID
}

// List returns the owner's tasks, newest first, optionally narrowed by
// a case-insensitive title keyword. Keyword queries bypass the cache.
func (s *TaskService) List(ctx context.Context, ownerID, keyword string) ([]model.Task, error) {
	if keyword == "" {
		if tasks, ok := s.listCache.Get(ctx, ownerID); ok {
			return tasks, nil
		}
	}

	tasks, err := s.tasks.ListByOwner(ctx, ownerID, keyword)
	if err != nil {
		return nil, err
	}

	if keyword == "" {
		s.listCache.Set(ctx, ownerID, tasks)
	}
	return tasks, nil
}

// Create makes a new task owned by ownerID. The owner comes from the
// authenticated caller only; nothing in the payload can override it.
func (s *TaskService) Create(ctx context.Context, ownerID, title, description, priority string, dueDate *time.Time) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	now := time.Now()
	t := &model.Task{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Priority:    priority,
		DueDate:     dueDate,
		Status:      model.StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Insert(ctx, t); err != nil {
		return nil, err
	}

	s.listCache.Invalidate(ctx, ownerID)
	s.publisher.TaskCreated(t)
	metrics.IncrementTaskMutation("create")
	return t, nil
}

// Update applies a partial patch to the task. Missing tasks are
// reported before ownership, so a non-owner probing a deleted id sees
// the same answer as everyone else.
func (s *TaskService) Update(ctx context.Context, taskID, userID string, patch TaskPatch) (*model.Task, error) {
	t, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	if !canMutate(userID, t) {
		s.logger.Warn("Task update rejected, caller is not the owner",
			zap.String("task_id", taskID),
			zap.String("user_id", userID),
		)
		return nil, ErrNotOwner
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		t.Title = title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		if !model.ValidPriority(*patch.Priority) {
			return nil, ErrInvalidPriority
		}
		t.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}
	if patch.Status != nil {
		if !model.ValidStatus(*patch.Status) {
			return nil, ErrInvalidStatus
		}
		t.Status = *patch.Status
	}
	t.UpdatedAt = time.Now()

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}

	s.listCache.Invalidate(ctx, t.OwnerID)
	s.publisher.TaskUpdated(t)
	metrics.IncrementTaskMutation("update")
	return t, nil
}

// Delete removes the task if the caller owns it.
func (s *TaskService) Delete(ctx context.Context, taskID, userID string) error {
	t, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrTaskNotFound
	}
	if !canMutate(userID, t) {
		s.logger.Warn("Task delete rejected, caller is not the owner",
			zap.String("task_id", taskID),
			zap.String("user_id", userID),
		)
		return ErrNotOwner
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}

	s.listCache.Invalidate(ctx, t.OwnerID)
	s.publisher.TaskDeleted(t)
	metrics.IncrementTaskMutation("delete")
	return nil
}
