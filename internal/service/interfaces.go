package service

import (
	"context"

	"github.com/Rsgr172026/KanbanMate/internal/model"
)

// UserStore is the credential store consumed by the auth service and
// the access guard. Lookups return (nil, nil) when no record exists.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// TaskStore persists task records. Lookups return (nil, nil) when no
// record exists; ListByOwner orders by creation time, newest first.
type TaskStore interface {
	Insert(ctx context.Context, t *model.Task) error
	ListByOwner(ctx context.Context, ownerID, keyword string) ([]model.Task, error)
	FindByID(ctx context.Context, id string) (*model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id string) error
}
