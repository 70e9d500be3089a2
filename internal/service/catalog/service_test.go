package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedly/catalog-api/internal/model"
	apperrors "github.com/schedly/catalog-api/pkg/errors"
	"github.com/schedly/catalog-api/pkg/metrics"
)

// promauto registers globally, so the test package shares one instance
var testMetrics = metrics.NewMetrics("catalog_test", "service")

type fakeServiceRepo struct {
	services map[uuid.UUID]*model.AppointmentService
	events   []*model.OutboxEvent
	getCalls int

	// failEventWith makes every mutation fail its outbox write, leaving
	// the record untouched, the way a rolled-back transaction would.
	failEventWith error
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: make(map[uuid.UUID]*model.AppointmentService)}
}

func (r *fakeServiceRepo) recordEvent(event *model.OutboxEvent) error {
	if r.failEventWith != nil {
		return fmt.Errorf("failed to create outbox event: %w", r.failEventWith)
	}
	if event != nil {
		r.events = append(r.events, event)
	}
	return nil
}

func (r *fakeServiceRepo) Create(ctx context.Context, svc *model.AppointmentService, event *model.OutboxEvent) error {
	if err := r.recordEvent(event); err != nil {
		return err
	}
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = time.Now()
	cp := *svc
	r.services[svc.ID] = &cp
	return nil
}

func (r *fakeServiceRepo) Get(ctx context.Context, id uuid.UUID) (*model.AppointmentService, error) {
	r.getCalls++
	svc, ok := r.services[id]
	if !ok {
		return nil, apperrors.NotFound("service", nil)
	}
	cp := *svc
	return &cp, nil
}

func (r *fakeServiceRepo) GetByName(ctx context.Context, name string) (*model.AppointmentService, error) {
	for _, svc := range r.services {
		if svc.ServiceName == name {
			cp := *svc
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("service", nil)
}

func (r *fakeServiceRepo) Update(ctx context.Context, svc *model.AppointmentService, event *model.OutboxEvent) error {
	if _, ok := r.services[svc.ID]; !ok {
		return apperrors.NotFound("service", nil)
	}
	if err := r.recordEvent(event); err != nil {
		return err
	}
	svc.UpdatedAt = time.Now()
	cp := *svc
	r.services[svc.ID] = &cp
	return nil
}

func (r *fakeServiceRepo) Delete(ctx context.Context, id uuid.UUID, event *model.OutboxEvent) error {
	if _, ok := r.services[id]; !ok {
		return apperrors.NotFound("service", nil)
	}
	if err := r.recordEvent(event); err != nil {
		return err
	}
	delete(r.services, id)
	return nil
}

func (r *fakeServiceRepo) List(ctx context.Context, filters *model.ServiceFilters) ([]*model.AppointmentService, error) {
	var out []*model.AppointmentService
	for _, svc := range r.services {
		if filters.Enabled != nil && svc.Enabled != *filters.Enabled {
			continue
		}
		cp := *svc
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeServiceRepo) Count(ctx context.Context, filters *model.ServiceFilters) (int, error) {
	list, _ := r.List(ctx, filters)
	return len(list), nil
}

func newTestService() (*Service, *fakeServiceRepo) {
	repo := newFakeServiceRepo()
	return NewService(repo, time.Minute, testMetrics), repo
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func TestCreateService(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation",
		Description: strPtr("Initial consultation"),
		Duration:    30,
		Price:       50.00,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Consultation", created.ServiceName)
	assert.Equal(t, 30, created.Duration)
	assert.Equal(t, 50.00, created.Price)
	assert.True(t, created.Enabled, "services default to enabled")

	require.Len(t, repo.events, 1)
	assert.Equal(t, model.EventServiceCreated, repo.events[0].EventType)
}

func TestCreateServiceValidation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name string
		req  *model.CreateServiceRequest
	}{
		{"missing name", &model.CreateServiceRequest{Duration: 30, Price: 10}},
		{"zero duration", &model.CreateServiceRequest{ServiceName: "X", Duration: 0, Price: 10}},
		{"negative duration", &model.CreateServiceRequest{ServiceName: "X", Duration: -15, Price: 10}},
		{"negative price", &model.CreateServiceRequest{ServiceName: "X", Duration: 30, Price: -1}},
		{"duration over a day", &model.CreateServiceRequest{ServiceName: "X", Duration: 25 * 60, Price: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateService(context.Background(), tt.req)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
		})
	}
}

func TestCreateServiceDuplicateName(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.NoError(t, err)

	_, err = svc.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 60, Price: 80,
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestCreateServiceFailsWhenEventNotRecorded(t *testing.T) {
	svc, repo := newTestService()
	repo.failEventWith = errors.New("outbox insert failed")

	_, err := svc.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outbox insert failed")

	assert.Empty(t, repo.services, "record must not land without its event")
	assert.Empty(t, repo.events)
}

func TestSetEnabledFailsWhenEventNotRecorded(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.NoError(t, err)

	repo.failEventWith = errors.New("outbox insert failed")
	_, err = svc.SetEnabled(context.Background(), created.ID, false)
	require.Error(t, err)

	repo.failEventWith = nil
	got, err := svc.GetService(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, got.Enabled, "failed toggle leaves record unchanged")
}

func TestGetServiceCaches(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.NoError(t, err)

	repo.getCalls = 0
	_, err = svc.GetService(context.Background(), created.ID)
	require.NoError(t, err)
	_, err = svc.GetService(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.getCalls, "second read should hit the cache")
}

func TestGetServiceCallersCannotPoisonCache(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.NoError(t, err)

	first, err := svc.GetService(context.Background(), created.ID)
	require.NoError(t, err)
	first.ServiceName = "Mutated"
	first.Price = -1

	second, err := svc.GetService(context.Background(), created.ID)
	require.NoError(t, err)
	second.Duration = 999

	third, err := svc.GetService(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Consultation", third.ServiceName)
	assert.Equal(t, 30, third.Duration)
	assert.Equal(t, 50.0, third.Price)
}

func TestGetServiceNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetService(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateServicePartial(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation",
		Description: strPtr("Initial consultation"),
		Duration:    30,
		Price:       50,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateService(context.Background(), created.ID, &model.UpdateServiceRequest{
		Duration: intPtr(45),
		Price:    floatPtr(75),
	})
	require.NoError(t, err)

	assert.Equal(t, "Consultation", updated.ServiceName, "untouched fields survive")
	assert.Equal(t, 45, updated.Duration)
	assert.Equal(t, 75.0, updated.Price)

	require.Len(t, repo.events, 2)
	assert.Equal(t, model.EventServiceUpdated, repo.events[1].EventType)
}

func TestUpdateServiceRejectsInvalid(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.NoError(t, err)

	_, err = svc.UpdateService(context.Background(), created.ID, &model.UpdateServiceRequest{
		Duration: intPtr(-10),
	})
	require.Error(t, err)

	got, err := svc.GetService(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Duration, "failed update leaves record unchanged")
}

func TestSetEnabled(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.NoError(t, err)

	disabled, err := svc.SetEnabled(context.Background(), created.ID, false)
	require.NoError(t, err)
	assert.False(t, disabled.Enabled)

	// No-op toggle emits nothing
	_, err = svc.SetEnabled(context.Background(), created.ID, false)
	require.NoError(t, err)

	require.Len(t, repo.events, 2)
	assert.Equal(t, model.EventServiceDisabled, repo.events[1].EventType)
}

func TestDeleteService(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteService(context.Background(), created.ID))

	_, err = svc.GetService(context.Background(), created.ID)
	assert.True(t, apperrors.IsNotFound(err))

	require.Len(t, repo.events, 2)
	assert.Equal(t, model.EventServiceDeleted, repo.events[1].EventType)
}

func TestListServicesFiltersEnabled(t *testing.T) {
	svc, _ := newTestService()

	a, err := svc.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.NoError(t, err)
	_, err = svc.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Cleaning", Duration: 45, Price: 80, Enabled: boolPtr(false),
	})
	require.NoError(t, err)

	services, total, err := svc.ListServices(context.Background(), &model.ServiceFilters{Enabled: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, services, 1)
	assert.Equal(t, a.ID, services[0].ID)
}
