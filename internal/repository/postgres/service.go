package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/schedly/catalog-api/pkg/errors"

	"github.com/schedly/catalog-api/internal/model"
)

// All service catalog repository methods here

func (r *serviceRepository) Create(ctx context.Context, svc *model.AppointmentService, event *model.OutboxEvent) error {
	query := `
		INSERT INTO appointment_services (
			id, service_name, description, duration, enabled, price,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = time.Now()

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			svc.ID,
			svc.ServiceName,
			svc.Description,
			svc.Duration,
			svc.Enabled,
			svc.Price,
			svc.CreatedAt,
			svc.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create service: %w", err)
		}
		return insertOutboxEvent(ctx, tx, event)
	})
}

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.AppointmentService, error) {
	query := `
		SELECT id, service_name, description, duration, enabled, price,
			   created_at, updated_at, deleted_at
		FROM appointment_services
		WHERE id = $1 AND deleted_at IS NULL
	`
	var svc model.AppointmentService
	err := r.db.GetContext(ctx, &svc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("service", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

func (r *serviceRepository) GetByName(ctx context.Context, name string) (*model.AppointmentService, error) {
	query := `
		SELECT id, service_name, description, duration, enabled, price,
			   created_at, updated_at, deleted_at
		FROM appointment_services
		WHERE service_name = $1 AND deleted_at IS NULL
	`
	var svc model.AppointmentService
	err := r.db.GetContext(ctx, &svc, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("service", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service by name: %w", err)
	}
	return &svc, nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *model.AppointmentService, event *model.OutboxEvent) error {
	query := `
		UPDATE appointment_services
		SET service_name = $1, description = $2, duration = $3,
			enabled = $4, price = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL
	`
	svc.UpdatedAt = time.Now()

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query,
			svc.ServiceName,
			svc.Description,
			svc.Duration,
			svc.Enabled,
			svc.Price,
			svc.UpdatedAt,
			svc.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update service: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("service", nil)
		}

		return insertOutboxEvent(ctx, tx, event)
	})
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID, event *model.OutboxEvent) error {
	query := `
		UPDATE appointment_services
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL
	`
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query, time.Now(), id)
		if err != nil {
			return fmt.Errorf("failed to delete service: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return apperrors.NotFound("service", nil)
		}

		return insertOutboxEvent(ctx, tx, event)
	})
}

func (r *serviceRepository) List(ctx context.Context, filters *model.ServiceFilters) ([]*model.AppointmentService, error) {
	query := `
		SELECT id, service_name, description, duration, enabled, price,
			   created_at, updated_at, deleted_at
		FROM appointment_services
		WHERE deleted_at IS NULL
	`
	args := []interface{}{}
	argCount := 1

	if filters.Enabled != nil {
		query += fmt.Sprintf(" AND enabled = $%d", argCount)
		args = append(args, *filters.Enabled)
		argCount++
	}

	if filters.SearchTerm != "" {
		query += fmt.Sprintf(" AND (service_name ILIKE $%d OR description ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+filters.SearchTerm+"%")
		argCount++
	}

	query += " ORDER BY service_name ASC"

	if filters.Pagination.PageSize > 0 {
		offset := (filters.Pagination.Page - 1) * filters.Pagination.PageSize
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
		args = append(args, filters.Pagination.PageSize, offset)
	}

	var services []*model.AppointmentService
	err := r.db.SelectContext(ctx, &services, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *serviceRepository) Count(ctx context.Context, filters *model.ServiceFilters) (int, error) {
	query := `SELECT COUNT(*) FROM appointment_services WHERE deleted_at IS NULL`
	args := []interface{}{}
	argCount := 1

	if filters.Enabled != nil {
		query += fmt.Sprintf(" AND enabled = $%d", argCount)
		args = append(args, *filters.Enabled)
		argCount++
	}

	if filters.SearchTerm != "" {
		query += fmt.Sprintf(" AND (service_name ILIKE $%d OR description ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+filters.SearchTerm+"%")
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count services: %w", err)
	}
	return count, nil
}
