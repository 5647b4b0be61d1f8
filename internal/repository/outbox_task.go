package repository

//go:generate mockgen -source=outbox_task.go -destination=mocks/outbox_task.go -package=mock_repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gitlab.ozon.dev/pupkingeorgij/agrimove/internal/db"
)

type OutboxTaskRepository interface {
	CreateTx(ctx context.Context, tx db.Tx, task *OutboxTask) error
	GetProcessableTasks(ctx context.Context, tx db.Tx, limit, maxAttempts int) ([]*OutboxTask, error)
	UpdateTaskStatusTx(ctx context.Context, tx db.Tx, id uuid.UUID, status TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
	UpdateTaskStatus(ctx context.Context, db db.DB, id uuid.UUID, status TaskStatus, attempts int, lastError *string, completedAt *time.Time) error
}
