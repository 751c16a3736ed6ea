package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/lightspeed/pkg/models"
)

// ErrNotFound is returned when no measurement has the requested sequence number
var ErrNotFound = errors.New("measurement not found")

// MeasurementRepository defines read access to the fixed dataset
type MeasurementRepository interface {
	List(ctx context.Context) ([]models.Measurement, error)
	GetBySequence(ctx context.Context, sequence int) (models.Measurement, error)
}
