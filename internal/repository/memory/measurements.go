package memory

import (
	"context"
	"fmt"

	"github.com/RMahshie/lightspeed/internal/repository"
	"github.com/RMahshie/lightspeed/pkg/models"
)

// MeasurementRepository serves an immutable in-memory record set
type MeasurementRepository struct {
	records    []models.Measurement
	bySequence map[int]int
}

// NewMeasurementRepository creates a repository over records. The first
// record wins when sequence numbers repeat.
func NewMeasurementRepository(records []models.Measurement) repository.MeasurementRepository {
	idx := make(map[int]int, len(records))
	for i, r := range records {
		if _, ok := idx[r.Sequence]; !ok {
			idx[r.Sequence] = i
		}
	}
	return &MeasurementRepository{records: records, bySequence: idx}
}

// List returns a copy of all records in dataset order
func (r *MeasurementRepository) List(ctx context.Context) ([]models.Measurement, error) {
	out := make([]models.Measurement, len(r.records))
	copy(out, r.records)
	return out, nil
}

// GetBySequence returns the record with the given sequence number
func (r *MeasurementRepository) GetBySequence(ctx context.Context, sequence int) (models.Measurement, error) {
	i, ok := r.bySequence[sequence]
	if !ok {
		return models.Measurement{}, fmt.Errorf("sequence %d: %w", sequence, repository.ErrNotFound)
	}
	return r.records[i], nil
}
