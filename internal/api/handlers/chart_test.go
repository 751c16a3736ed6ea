package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/lightspeed/internal/dataset"
	"github.com/RMahshie/lightspeed/internal/hover"
	"github.com/RMahshie/lightspeed/internal/observability"
	"github.com/RMahshie/lightspeed/internal/processing"
	"github.com/RMahshie/lightspeed/internal/render"
	"github.com/RMahshie/lightspeed/internal/repository/memory"
	"github.com/RMahshie/lightspeed/pkg/models"
)

// MockSnapshotService implements processing.SnapshotService for testing
type MockSnapshotService struct {
	mock.Mock
}

func (m *MockSnapshotService) Publish(ctx context.Context, format render.Format, state hover.State) (*models.Snapshot, error) {
	args := m.Called(ctx, format, state)
	if snap := args.Get(0); snap != nil {
		return snap.(*models.Snapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

type fixture struct {
	api      humatest.TestAPI
	handler  *ChartHandler
	store    *hover.Store
	renderer *render.Renderer
	metrics  *observability.Metrics
	clock    *clockwork.FakeClock
}

func newFixture(t *testing.T, snapshots *MockSnapshotService) *fixture {
	t.Helper()

	metrics := observability.NewMetricsForTesting()
	store := hover.NewStore(func(e hover.Event, _ hover.State) {
		metrics.HoverEvents.WithLabelValues(e.Name()).Inc()
	})
	renderer := render.New(dataset.All(), render.DefaultOptions())
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	var svc processing.SnapshotService
	if snapshots != nil {
		svc = snapshots
	}
	h := NewChartHandler(memory.NewMeasurementRepository(dataset.All()), store, renderer, svc, metrics, clock)

	_, api := humatest.New(t)
	huma.Get(api, "/health", h.Health)
	huma.Get(api, "/api/measurements", h.ListMeasurements)
	huma.Get(api, "/api/hover", h.GetHover)
	huma.Put(api, "/api/hover/{sequence}", h.EnterHover)
	huma.Delete(api, "/api/hover", h.LeaveHover)
	huma.Post(api, "/api/pointer", h.Pointer)
	huma.Post(api, "/api/snapshots", h.CreateSnapshot)

	return &fixture{api: api, handler: h, store: store, renderer: renderer, metrics: metrics, clock: clock}
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[struct {
		Status  string    `json:"status"`
		Records int       `json:"records"`
		Time    time.Time `json:"time"`
	}](t, resp)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, 57, body.Records)
	assert.True(t, f.clock.Now().Equal(body.Time))
}

func TestListMeasurements(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.api.Get("/api/measurements")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[struct {
		Measurements []models.Measurement `json:"measurements"`
	}](t, resp)
	assert.Equal(t, dataset.All(), body.Measurements)
}

func TestHoverLifecycle(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.api.Get("/api/hover")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Nil(t, decode[models.HoverStateBody](t, resp).Hovered)

	resp = f.api.Put("/api/hover/26")
	require.Equal(t, http.StatusOK, resp.Code)
	hovered := decode[models.HoverStateBody](t, resp).Hovered
	require.NotNil(t, hovered)
	assert.Equal(t, dataset.All()[25], *hovered)
	assert.True(t, f.store.Current().IsHovered(dataset.All()[25]))

	resp = f.api.Delete("/api/hover")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Nil(t, decode[models.HoverStateBody](t, resp).Hovered)
	assert.Nil(t, f.store.Current().Hovered)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.HoverEvents.WithLabelValues("enter")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.HoverEvents.WithLabelValues("leave")))
}

func TestEnterHoverUnknownSequence(t *testing.T) {
	f := newFixture(t, nil)

	resp := f.api.Put("/api/hover/999")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Nil(t, f.store.Current().Hovered)
}

func TestPointer(t *testing.T) {
	f := newFixture(t, nil)

	_, frame, err := f.renderer.RenderBytes(render.FormatSVG, hover.State{})
	require.NoError(t, err)
	require.NotEmpty(t, frame.Points)

	at := frame.Points[0].At
	want, ok := frame.HitTest(at, HitRadius)
	require.True(t, ok)

	t.Run("over a marker enters", func(t *testing.T) {
		resp := f.api.Post("/api/pointer", map[string]any{"x": at.X, "y": at.Y})
		require.Equal(t, http.StatusOK, resp.Code)

		body := decode[models.PointerResponseBody](t, resp)
		assert.True(t, body.Changed)
		require.NotNil(t, body.Hovered)
		assert.Equal(t, want, *body.Hovered)
		assert.Contains(t, body.SVG, "<svg")
	})

	t.Run("same marker again is unchanged", func(t *testing.T) {
		resp := f.api.Post("/api/pointer", map[string]any{"x": at.X, "y": at.Y})
		require.Equal(t, http.StatusOK, resp.Code)

		body := decode[models.PointerResponseBody](t, resp)
		assert.False(t, body.Changed)
		require.NotNil(t, body.Hovered)
		assert.Equal(t, want, *body.Hovered)
	})

	t.Run("empty space leaves", func(t *testing.T) {
		resp := f.api.Post("/api/pointer", map[string]any{"x": -50, "y": -50})
		require.Equal(t, http.StatusOK, resp.Code)

		body := decode[models.PointerResponseBody](t, resp)
		assert.True(t, body.Changed)
		assert.Nil(t, body.Hovered)
		assert.Nil(t, f.store.Current().Hovered)
	})

	t.Run("empty space with nothing hovered is unchanged", func(t *testing.T) {
		resp := f.api.Post("/api/pointer", map[string]any{"x": -50, "y": -50})
		require.Equal(t, http.StatusOK, resp.Code)
		assert.False(t, decode[models.PointerResponseBody](t, resp).Changed)
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.HoverEvents.WithLabelValues("enter")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.HoverEvents.WithLabelValues("leave")))
}

func TestPointerConcurrentEntersOnce(t *testing.T) {
	f := newFixture(t, nil)

	_, frame, err := f.renderer.RenderBytes(render.FormatSVG, hover.State{})
	require.NoError(t, err)
	at := frame.Points[0].At

	var changed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := f.api.Post("/api/pointer", map[string]any{"x": at.X, "y": at.Y})
			if resp.Code != http.StatusOK {
				return
			}
			var body models.PointerResponseBody
			if json.Unmarshal(resp.Body.Bytes(), &body) == nil && body.Changed {
				changed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), changed.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.HoverEvents.WithLabelValues("enter")))
}

func TestCreateSnapshot(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := newFixture(t, nil)
		resp := f.api.Post("/api/snapshots", map[string]any{"format": "svg"})
		assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	})

	t.Run("publishes current state", func(t *testing.T) {
		svc := new(MockSnapshotService)
		f := newFixture(t, svc)
		f.store.Dispatch(hover.Entered{Record: dataset.All()[0]})

		seq := 1
		snap := &models.Snapshot{
			ID:          "abc",
			Key:         "snapshots/abc.png",
			ContentType: "image/png",
			DownloadURL: "https://example.test/abc.png",
			Hovered:     &seq,
			CreatedAt:   f.clock.Now(),
		}
		svc.On("Publish", mock.Anything, render.FormatPNG, f.store.Current()).Return(snap, nil)

		resp := f.api.Post("/api/snapshots", map[string]any{"format": "png"})
		require.Equal(t, http.StatusOK, resp.Code)

		got := decode[models.Snapshot](t, resp)
		assert.Equal(t, "snapshots/abc.png", got.Key)
		require.NotNil(t, got.Hovered)
		assert.Equal(t, 1, *got.Hovered)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Snapshots.WithLabelValues("success")))
		svc.AssertExpectations(t)
	})

	t.Run("upload failure", func(t *testing.T) {
		svc := new(MockSnapshotService)
		f := newFixture(t, svc)
		svc.On("Publish", mock.Anything, render.FormatSVG, hover.State{}).Return(nil, errors.New("bucket gone"))

		resp := f.api.Post("/api/snapshots", map[string]any{"format": "svg"})
		assert.Equal(t, http.StatusBadGateway, resp.Code)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Snapshots.WithLabelValues("error")))
	})

	t.Run("format defaults to svg", func(t *testing.T) {
		svc := new(MockSnapshotService)
		f := newFixture(t, svc)
		svc.On("Publish", mock.Anything, render.FormatSVG, hover.State{}).Return(&models.Snapshot{ID: "abc"}, nil)

		resp := f.api.Post("/api/snapshots", map[string]any{})
		require.Equal(t, http.StatusOK, resp.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown format", func(t *testing.T) {
		f := newFixture(t, new(MockSnapshotService))
		resp := f.api.Post("/api/snapshots", map[string]any{"format": "gif"})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestServeImage(t *testing.T) {
	f := newFixture(t, nil)

	rec := httptest.NewRecorder()
	f.handler.ServeImage(render.FormatSVG)(rec, httptest.NewRequest(http.MethodGet, "/chart.svg", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = httptest.NewRecorder()
	f.handler.ServeImage(render.FormatPNG)(rec, httptest.NewRequest(http.MethodGet, "/chart.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte("\x89PNG"), rec.Body.Bytes()[:4])
}
