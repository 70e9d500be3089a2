package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schedly/catalog-api/internal/model"
)

// All repository interfaces in one file
type (
	// ServiceRepository handles appointment service catalog storage.
	// Mutations take the outbox event recording the change; the record and
	// its event are written in a single transaction so neither can land
	// without the other. A nil event writes the record alone.
	ServiceRepository interface {
		Create(ctx context.Context, svc *model.AppointmentService, event *model.OutboxEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.AppointmentService, error)
		GetByName(ctx context.Context, name string) (*model.AppointmentService, error)
		Update(ctx context.Context, svc *model.AppointmentService, event *model.OutboxEvent) error
		Delete(ctx context.Context, id uuid.UUID, event *model.OutboxEvent) error
		List(ctx context.Context, filters *model.ServiceFilters) ([]*model.AppointmentService, error)
		Count(ctx context.Context, filters *model.ServiceFilters) (int, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		CreateTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
