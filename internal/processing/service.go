package processing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/lightspeed/internal/hover"
	"github.com/RMahshie/lightspeed/internal/render"
	"github.com/RMahshie/lightspeed/internal/storage"
	"github.com/RMahshie/lightspeed/pkg/models"
)

// ChartRenderer renders the chart for a hover state
type ChartRenderer interface {
	RenderBytes(format render.Format, state hover.State) ([]byte, *render.Frame, error)
}

// SnapshotService publishes renderings of the current chart
type SnapshotService interface {
	Publish(ctx context.Context, format render.Format, state hover.State) (*models.Snapshot, error)
}

type snapshotService struct {
	store    storage.SnapshotStore
	renderer ChartRenderer
	clock    clockwork.Clock
}

// NewSnapshotService creates a snapshot service. A nil clock uses real time.
func NewSnapshotService(store storage.SnapshotStore, renderer ChartRenderer, clock clockwork.Clock) SnapshotService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &snapshotService{
		store:    store,
		renderer: renderer,
		clock:    clock,
	}
}

func (s *snapshotService) Publish(ctx context.Context, format render.Format, state hover.State) (*models.Snapshot, error) {
	// Step 1: Render the chart as it currently looks
	body, _, err := s.renderer.RenderBytes(format, state)
	if err != nil {
		return nil, err
	}

	// Step 2: Upload
	id := uuid.New()
	key := fmt.Sprintf("snapshots/%s.%s", id, format.Extension())
	if err := s.store.Upload(ctx, key, format.ContentType(), body); err != nil {
		return nil, err
	}

	// Step 3: Hand back a download link
	url, err := s.store.GenerateDownloadURL(ctx, key)
	if err != nil {
		return nil, err
	}

	snap := &models.Snapshot{
		ID:          id.String(),
		Key:         key,
		ContentType: format.ContentType(),
		DownloadURL: url,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if state.Hovered != nil {
		seq := state.Hovered.Sequence
		snap.Hovered = &seq
	}

	log.Info().Str("snapshotID", snap.ID).Str("key", key).Int("bytes", len(body)).Msg("Snapshot published")
	return snap, nil
}
