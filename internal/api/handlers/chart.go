package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/lightspeed/internal/geometry"
	"github.com/RMahshie/lightspeed/internal/hover"
	"github.com/RMahshie/lightspeed/internal/observability"
	"github.com/RMahshie/lightspeed/internal/processing"
	"github.com/RMahshie/lightspeed/internal/render"
	"github.com/RMahshie/lightspeed/internal/repository"
	"github.com/RMahshie/lightspeed/pkg/models"
)

// HitRadius is how close, in chart pixels, the pointer must be to a marker
const HitRadius = 6.0

// Version is reported by the health endpoint
const Version = "1.0.0"

// ChartHandler serves the chart and turns pointer events into hover events
type ChartHandler struct {
	repo      repository.MeasurementRepository
	store     *hover.Store
	renderer  processing.ChartRenderer
	snapshots processing.SnapshotService
	metrics   *observability.Metrics
	clock     clockwork.Clock

	// mu guards frame, the layout of the most recent SVG rendering
	mu    sync.Mutex
	frame *render.Frame
}

// NewChartHandler creates a chart handler. snapshots may be nil when no
// bucket is configured.
func NewChartHandler(repo repository.MeasurementRepository, store *hover.Store, renderer processing.ChartRenderer, snapshots processing.SnapshotService, metrics *observability.Metrics, clock clockwork.Clock) *ChartHandler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ChartHandler{
		repo:      repo,
		store:     store,
		renderer:  renderer,
		snapshots: snapshots,
		metrics:   metrics,
		clock:     clock,
	}
}

// Health reports service status
func (h *ChartHandler) Health(ctx context.Context, _ *struct{}) (*models.HealthResponse, error) {
	records, err := h.repo.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to read dataset", err)
	}
	resp := &models.HealthResponse{}
	resp.Body.Status = "healthy"
	resp.Body.Version = Version
	resp.Body.Records = len(records)
	resp.Body.Time = h.clock.Now()
	return resp, nil
}

// ListMeasurements returns every record
func (h *ChartHandler) ListMeasurements(ctx context.Context, _ *struct{}) (*models.ListMeasurementsResponse, error) {
	records, err := h.repo.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to read dataset", err)
	}
	resp := &models.ListMeasurementsResponse{}
	resp.Body.Measurements = records
	return resp, nil
}

// GetHover returns the hovered record, if any
func (h *ChartHandler) GetHover(ctx context.Context, _ *struct{}) (*models.GetHoverResponse, error) {
	return &models.GetHoverResponse{Body: hoverBody(h.store.Current())}, nil
}

// EnterHover dispatches a hover-start for the record with the given sequence
func (h *ChartHandler) EnterHover(ctx context.Context, req *models.EnterHoverRequest) (*models.HoverResponse, error) {
	rec, err := h.repo.GetBySequence(ctx, req.Sequence)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, huma.Error404NotFound("Measurement not found", err)
		}
		return nil, huma.Error500InternalServerError("Failed to read dataset", err)
	}

	state := h.store.Dispatch(hover.Entered{Record: rec})
	log.Debug().Int("sequence", rec.Sequence).Str("observer", rec.Observer).Msg("Hover entered")
	return &models.HoverResponse{Body: hoverBody(state)}, nil
}

// LeaveHover dispatches a hover-end
func (h *ChartHandler) LeaveHover(ctx context.Context, _ *struct{}) (*models.HoverResponse, error) {
	state := h.store.Dispatch(hover.Left{})
	log.Debug().Msg("Hover left")
	return &models.HoverResponse{Body: hoverBody(state)}, nil
}

// Pointer hit-tests a pointer position against the last rendering and
// dispatches enter or leave when the hovered record changes.
func (h *ChartHandler) Pointer(ctx context.Context, req *models.PointerRequest) (*models.PointerResponse, error) {
	frame, err := h.currentFrame()
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to render chart", err)
	}

	rec, hit := frame.HitTest(geometry.Point{X: req.Body.X, Y: req.Body.Y}, HitRadius)
	next, changed := h.store.DispatchIf(func(current hover.State) hover.Event {
		switch {
		case hit && !current.IsHovered(rec):
			return hover.Entered{Record: rec}
		case !hit && current.Hovered != nil:
			return hover.Left{}
		}
		return nil
	})

	svg, err := h.renderSVG(next)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to render chart", err)
	}

	resp := &models.PointerResponse{}
	resp.Body.Hovered = hoverBody(next).Hovered
	resp.Body.Changed = changed
	resp.Body.SVG = string(svg)
	return resp, nil
}

// CreateSnapshot renders the current chart and stores it
func (h *ChartHandler) CreateSnapshot(ctx context.Context, req *models.CreateSnapshotRequest) (*models.CreateSnapshotResponse, error) {
	if h.snapshots == nil {
		return nil, huma.Error503ServiceUnavailable("Snapshots are not configured")
	}
	// The enum tag on the request already limits this to svg or png.
	format := render.Format(req.Body.Format)
	if format == "" {
		format = render.FormatSVG
	}

	snap, err := h.snapshots.Publish(ctx, format, h.store.Current())
	if err != nil {
		h.metrics.Snapshots.WithLabelValues("error").Inc()
		return nil, huma.Error502BadGateway("Failed to publish snapshot", err)
	}
	h.metrics.Snapshots.WithLabelValues("success").Inc()
	return &models.CreateSnapshotResponse{Body: *snap}, nil
}

// ServeImage writes the chart for the current state in the given format
func (h *ChartHandler) ServeImage(format render.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			body []byte
			err  error
		)
		if format == render.FormatSVG {
			body, err = h.renderSVG(h.store.Current())
		} else {
			body, _, err = h.render(format, h.store.Current())
		}
		if err != nil {
			log.Error().Err(err).Str("format", string(format)).Msg("Chart render failed")
			http.Error(w, "Failed to render chart", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(body)
	}
}

// CurrentSVG renders the chart for the current state
func (h *ChartHandler) CurrentSVG() ([]byte, error) {
	return h.renderSVG(h.store.Current())
}

// RecordCount returns the number of records in the dataset
func (h *ChartHandler) RecordCount(ctx context.Context) int {
	records, err := h.repo.List(ctx)
	if err != nil {
		return 0
	}
	return len(records)
}

func (h *ChartHandler) renderSVG(state hover.State) ([]byte, error) {
	body, frame, err := h.render(render.FormatSVG, state)
	if err != nil {
		return nil, err
	}
	h.mu.Lock()
	h.frame = frame
	h.mu.Unlock()
	return body, nil
}

func (h *ChartHandler) render(format render.Format, state hover.State) ([]byte, *render.Frame, error) {
	start := time.Now()
	body, frame, err := h.renderer.RenderBytes(format, state)
	if err != nil {
		h.metrics.RenderErrors.Inc()
		return nil, nil, err
	}
	h.metrics.RenderDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
	return body, frame, nil
}

func (h *ChartHandler) currentFrame() (*render.Frame, error) {
	h.mu.Lock()
	frame := h.frame
	h.mu.Unlock()
	if frame != nil {
		return frame, nil
	}
	if _, err := h.renderSVG(h.store.Current()); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frame, nil
}

func hoverBody(s hover.State) models.HoverStateBody {
	if s.Hovered == nil {
		return models.HoverStateBody{}
	}
	rec := *s.Hovered
	return models.HoverStateBody{Hovered: &rec}
}
