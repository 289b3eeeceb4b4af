package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"daily-menu/metrics"
	"daily-menu/models"
	"daily-menu/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var lunch = models.DayMenu{
	ID:   "d1",
	Date: "2025-01-02",
	Shifts: []models.Shift{{
		ID:   "s1",
		Type: models.ShiftLunch,
		Variants: []models.Variant{{
			ID: "v1", DishName: "Plov", Price: "15000",
			MenuItems: []models.MenuItem{{ID: "i1", Text: "Rice"}},
		}},
	}},
}

type fakeMenus struct {
	from  string
	menus []models.DayMenu
	err   error
}

func (f *fakeMenus) ListPublished(_ context.Context, from string) ([]models.DayMenu, error) {
	f.from = from
	return f.menus, f.err
}

func (f *fakeMenus) GetPublished(_ context.Context, date string) (*models.DayMenu, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, d := range f.menus {
		if d.Date == date {
			return &d, nil
		}
	}
	return nil, services.ErrMenuNotPublished
}

func newTestServer(menus *fakeMenus, pingErr error) http.Handler {
	reg := prometheus.NewRegistry()
	m := metrics.NewEditor(reg)
	m.Publishes.WithLabelValues(metrics.OutcomeApplied).Inc()

	s := New(zap.NewNop().Sugar(), menus, func(context.Context) error { return pingErr }, metrics.HandlerForRegistry(reg))
	s.now = func() time.Time { return time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC) }
	return s.Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(&fakeMenus{}, nil), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "ok", body.Services["database"])

	rec = get(t, newTestServer(&fakeMenus{}, errors.New("down")), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body.Status)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(&fakeMenus{}, nil), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `menu_publishes_total{outcome="applied"} 1`)
}

func TestListMenus(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		menus    *fakeMenus
		wantCode int
		wantFrom string
		wantLen  int
	}{
		{"defaults to today", "/api/v1/menus", &fakeMenus{menus: []models.DayMenu{lunch}}, http.StatusOK, "2025-01-01", 1},
		{"explicit from", "/api/v1/menus?from=2025-02-01", &fakeMenus{}, http.StatusOK, "2025-02-01", 0},
		{"bad from", "/api/v1/menus?from=02/01/2025", &fakeMenus{}, http.StatusBadRequest, "", 0},
		{"store error", "/api/v1/menus", &fakeMenus{err: errors.New("boom")}, http.StatusInternalServerError, "2025-01-01", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(tt.menus, nil), tt.target)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantFrom, tt.menus.from)
			if tt.wantCode != http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"error"`)
				return
			}
			var body MenusResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantFrom, body.From)
			assert.Len(t, body.Menus, tt.wantLen)
			assert.NotNil(t, body.Menus)
		})
	}
}

func TestGetMenu(t *testing.T) {
	h := newTestServer(&fakeMenus{menus: []models.DayMenu{lunch}}, nil)

	rec := get(t, h, "/api/v1/menus/2025-01-02")
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.DayMenu
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, lunch, got)

	rec = get(t, h, "/api/v1/menus/2025-01-03")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, h, "/api/v1/menus/tomorrow")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
