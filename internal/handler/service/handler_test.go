package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedly/catalog-api/internal/model"
	apperrors "github.com/schedly/catalog-api/pkg/errors"
)

type stubCatalog struct {
	services map[uuid.UUID]*model.AppointmentService
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{services: make(map[uuid.UUID]*model.AppointmentService)}
}

func (s *stubCatalog) CreateService(ctx context.Context, req *model.CreateServiceRequest) (*model.AppointmentService, error) {
	svc := &model.AppointmentService{
		ServiceName: req.ServiceName,
		Description: req.Description,
		Duration:    req.Duration,
		Enabled:     true,
		Price:       req.Price,
	}
	svc.ID = uuid.New()
	s.services[svc.ID] = svc
	return svc, nil
}

func (s *stubCatalog) GetService(ctx context.Context, id uuid.UUID) (*model.AppointmentService, error) {
	svc, ok := s.services[id]
	if !ok {
		return nil, apperrors.NotFound("service", nil)
	}
	return svc, nil
}

func (s *stubCatalog) UpdateService(ctx context.Context, id uuid.UUID, req *model.UpdateServiceRequest) (*model.AppointmentService, error) {
	svc, ok := s.services[id]
	if !ok {
		return nil, apperrors.NotFound("service", nil)
	}
	if req.ServiceName != nil {
		svc.ServiceName = *req.ServiceName
	}
	if req.Duration != nil {
		svc.Duration = *req.Duration
	}
	return svc, nil
}

func (s *stubCatalog) DeleteService(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.services[id]; !ok {
		return apperrors.NotFound("service", nil)
	}
	delete(s.services, id)
	return nil
}

func (s *stubCatalog) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*model.AppointmentService, error) {
	svc, ok := s.services[id]
	if !ok {
		return nil, apperrors.NotFound("service", nil)
	}
	svc.Enabled = enabled
	return svc, nil
}

func (s *stubCatalog) ListServices(ctx context.Context, filters *model.ServiceFilters) ([]*model.AppointmentService, int, error) {
	var out []*model.AppointmentService
	for _, svc := range s.services {
		out = append(out, svc)
	}
	return out, len(out), nil
}

func setupRouter(catalog Catalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := NewHandler(catalog)
	api := engine.Group("/api/v1")
	h.RegisterRoutes(api, api)
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateServiceEndpoint(t *testing.T) {
	engine := setupRouter(newStubCatalog())

	w := doRequest(t, engine, http.MethodPost, "/api/v1/services", map[string]interface{}{
		"service_name": "Consultation",
		"description":  "Initial consultation",
		"duration":     30,
		"price":        50.00,
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool                     `json:"success"`
		Data    model.AppointmentService `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Consultation", resp.Data.ServiceName)
	assert.Equal(t, 30, resp.Data.Duration)
	assert.True(t, resp.Data.Enabled)
}

func TestCreateServiceEndpointRejectsBadBody(t *testing.T) {
	engine := setupRouter(newStubCatalog())

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"duration": 30, "price": 10}},
		{"zero duration", map[string]interface{}{"service_name": "X", "duration": 0, "price": 10}},
		{"negative price", map[string]interface{}{"service_name": "X", "duration": 30, "price": -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, engine, http.MethodPost, "/api/v1/services", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetServiceEndpoint(t *testing.T) {
	catalog := newStubCatalog()
	created, err := catalog.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.NoError(t, err)

	engine := setupRouter(catalog)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/services/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.AppointmentService `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.Data.ID)
}

func TestGetServiceEndpointInvalidID(t *testing.T) {
	engine := setupRouter(newStubCatalog())

	w := doRequest(t, engine, http.MethodGet, "/api/v1/services/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetServiceEndpointNotFound(t *testing.T) {
	engine := setupRouter(newStubCatalog())

	w := doRequest(t, engine, http.MethodGet, "/api/v1/services/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListServicesEndpoint(t *testing.T) {
	catalog := newStubCatalog()
	_, err := catalog.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.NoError(t, err)

	engine := setupRouter(catalog)

	w := doRequest(t, engine, http.MethodGet, "/api/v1/services?page=1&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Data       []model.AppointmentService `json:"data"`
			Pagination struct {
				Total int `json:"total"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Pagination.Total)
	require.Len(t, resp.Data.Data, 1)
}

func TestListServicesEndpointInvalidEnabledFilter(t *testing.T) {
	engine := setupRouter(newStubCatalog())

	w := doRequest(t, engine, http.MethodGet, "/api/v1/services?enabled=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateServiceEndpoint(t *testing.T) {
	catalog := newStubCatalog()
	created, err := catalog.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.NoError(t, err)

	engine := setupRouter(catalog)

	w := doRequest(t, engine, http.MethodPut, "/api/v1/services/"+created.ID.String(), map[string]interface{}{
		"duration": 45,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.AppointmentService `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 45, resp.Data.Duration)
	assert.Equal(t, "Consultation", resp.Data.ServiceName)
}

func TestEnableDisableEndpoints(t *testing.T) {
	catalog := newStubCatalog()
	created, err := catalog.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.NoError(t, err)

	engine := setupRouter(catalog)

	w := doRequest(t, engine, http.MethodPost, "/api/v1/services/"+created.ID.String()+"/disable", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.AppointmentService `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Enabled)

	w = doRequest(t, engine, http.MethodPost, "/api/v1/services/"+created.ID.String()+"/enable", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Enabled)
}

func TestDeleteServiceEndpoint(t *testing.T) {
	catalog := newStubCatalog()
	created, err := catalog.CreateService(context.Background(), &model.CreateServiceRequest{
		ServiceName: "Consultation", Duration: 30, Price: 50,
	})
	require.NoError(t, err)

	engine := setupRouter(catalog)

	w := doRequest(t, engine, http.MethodDelete, "/api/v1/services/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, engine, http.MethodGet, "/api/v1/services/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
