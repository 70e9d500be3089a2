package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/schedly/catalog-api/internal/model"
	"github.com/schedly/catalog-api/internal/repository"
	apperrors "github.com/schedly/catalog-api/pkg/errors"
	"github.com/schedly/catalog-api/pkg/metrics"
)

// Business rules for catalog entries
const (
	MaxServiceNameLen = 140
	MaxDurationMins   = 24 * 60

	DefaultCacheTTL = 5 * time.Minute
)

type Service struct {
	repo    repository.ServiceRepository
	cache   *gocache.Cache
	metrics *metrics.Metrics
}

func NewService(repo repository.ServiceRepository, cacheTTL time.Duration, m *metrics.Metrics) *Service {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &Service{
		repo:    repo,
		cache:   gocache.New(cacheTTL, 2*cacheTTL),
		metrics: m,
	}
}

func (s *Service) CreateService(ctx context.Context, req *model.CreateServiceRequest) (*model.AppointmentService, error) {
	svc := &model.AppointmentService{
		Base:        model.Base{ID: uuid.New()},
		ServiceName: req.ServiceName,
		Description: req.Description,
		Duration:    req.Duration,
		Enabled:     true,
		Price:       req.Price,
	}
	if req.Enabled != nil {
		svc.Enabled = *req.Enabled
	}

	if err := s.validateService(svc); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByName(ctx, svc.ServiceName)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check for duplicate name: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict(fmt.Sprintf("service '%s' already exists", svc.ServiceName), nil)
	}

	event, err := newEvent(model.EventServiceCreated, svc)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, svc, event); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.metrics.CatalogMutations.WithLabelValues("create").Inc()

	return svc, nil
}

func (s *Service) GetService(ctx context.Context, id uuid.UUID) (*model.AppointmentService, error) {
	if cached, found := s.cache.Get(id.String()); found {
		s.metrics.CacheHits.Inc()
		cp := *cached.(*model.AppointmentService)
		return &cp, nil
	}
	s.metrics.CacheMisses.Inc()

	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Cache its own copy so callers mutating the result cannot poison it
	cp := *svc
	s.cache.SetDefault(id.String(), &cp)
	return svc, nil
}

func (s *Service) UpdateService(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.AppointmentService, error) {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ServiceName != nil {
		svc.ServiceName = *req.ServiceName
	}
	if req.Description != nil {
		svc.Description = req.Description
	}
	if req.Duration != nil {
		svc.Duration = *req.Duration
	}
	if req.Enabled != nil {
		svc.Enabled = *req.Enabled
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}

	if err := s.validateService(svc); err != nil {
		return nil, err
	}

	if req.ServiceName != nil {
		existing, err := s.repo.GetByName(ctx, svc.ServiceName)
		if err != nil && !apperrors.IsNotFound(err) {
			return nil, fmt.Errorf("failed to check for duplicate name: %w", err)
		}
		if existing != nil && existing.ID != svc.ID {
			return nil, apperrors.Conflict(fmt.Sprintf("service '%s' already exists", svc.ServiceName), nil)
		}
	}

	event, err := newEvent(model.EventServiceUpdated, svc)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, svc, event); err != nil {
		return nil, err
	}

	s.cache.Delete(id.String())
	s.metrics.CatalogMutations.WithLabelValues("update").Inc()

	return svc, nil
}

func (s *Service) DeleteService(ctx context.Context, id uuid.UUID) error {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	event, err := newEvent(model.EventServiceDeleted, svc)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, event); err != nil {
		return err
	}

	s.cache.Delete(id.String())
	s.metrics.CatalogMutations.WithLabelValues("delete").Inc()

	return nil
}

// SetEnabled flips the availability toggle without touching the rest of
// the record.
func (s *Service) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*model.AppointmentService, error) {
	svc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if svc.Enabled == enabled {
		return svc, nil
	}

	svc.Enabled = enabled
	eventType := model.EventServiceEnabled
	operation := "enable"
	if !enabled {
		eventType = model.EventServiceDisabled
		operation = "disable"
	}

	event, err := newEvent(eventType, svc)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, svc, event); err != nil {
		return nil, err
	}

	s.cache.Delete(id.String())
	s.metrics.CatalogMutations.WithLabelValues(operation).Inc()

	return svc, nil
}

func (s *Service) ListServices(ctx context.Context, filters *model.ServiceFilters) ([]*model.AppointmentService, int, error) {
	services, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list services: %w", err)
	}

	total, err := s.repo.Count(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count services: %w", err)
	}

	return services, total, nil
}

func (s *Service) validateService(svc *model.AppointmentService) error {
	if svc.ServiceName == "" {
		return apperrors.BadRequest("service name is required", nil)
	}
	if len(svc.ServiceName) > MaxServiceNameLen {
		return apperrors.BadRequest(fmt.Sprintf("service name exceeds %d characters", MaxServiceNameLen), nil)
	}
	if svc.Duration <= 0 {
		return apperrors.BadRequest("duration must be greater than zero", nil)
	}
	if svc.Duration > MaxDurationMins {
		return apperrors.BadRequest("duration cannot exceed 24 hours", nil)
	}
	if svc.Price < 0 {
		return apperrors.BadRequest("price cannot be negative", nil)
	}
	return nil
}

// newEvent builds the outbox record for a catalog change. The repository
// writes it in the same transaction as the mutation, so a failure rolls
// both back.
func newEvent(eventType string, svc *model.AppointmentService) (*model.OutboxEvent, error) {
	payload, err := json.Marshal(&model.ServiceEventPayload{
		ServiceID:   svc.ID,
		ServiceName: svc.ServiceName,
		Enabled:     svc.Enabled,
		Duration:    svc.Duration,
		Price:       svc.Price,
		OccurredAt:  time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
	}, nil
}
