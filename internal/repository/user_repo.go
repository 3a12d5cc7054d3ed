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

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	start := time.Now()
	query := `
        INSERT INTO users (id, name, email, password_hash, role, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.db.Exec(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.CreatedAt,
	)
	metrics.RecordDBQueryDuration("insert", "users", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to insert user",
			zap.Error(err),
			zap.String("email", u.Email),
		)
		return err
	}
	r.logger.Info("User inserted successfully",
		zap.String("user_id", u.ID),
		zap.String("email", u.Email),
	)
	return nil
}

// FindByEmail returns the user for an email, or nil when none exists.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	start := time.Now()
	query := `
        SELECT id, name, email, password_hash, role, created_at
        FROM users
        WHERE email = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	metrics.RecordDBQueryDuration("select", "users", time.Since(start))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to query user by email", zap.Error(err))
		return nil, err
	}
	return &u, nil
}

// FindByID returns the user for an id, or nil when none exists.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	start := time.Now()
	query := `
        SELECT id, name, email, password_hash, role, created_at
        FROM users
        WHERE id = $1
    `
	var u model.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt,
	)
	metrics.RecordDBQueryDuration("select", "users", time.Since(start))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to query user by id",
			zap.Error(err),
			zap.String("user_id", id),
		)
		return nil, err
	}
	return &u, nil
}
