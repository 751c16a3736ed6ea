package memory

import (
	"context"
	"testing"

	"github.com/RMahshie/lightspeed/internal/dataset"
	"github.com/RMahshie/lightspeed/internal/repository"
	"github.com/RMahshie/lightspeed/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasurementRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMeasurementRepository(dataset.All())

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 57)

	rec, err := repo.GetBySequence(ctx, 26)
	require.NoError(t, err)
	assert.Equal(t, "Aslakson", rec.Observer)

	_, err = repo.GetBySequence(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMeasurementRepository([]models.Measurement{{Sequence: 1, Observer: "A"}})

	all, err := repo.List(ctx)
	require.NoError(t, err)
	all[0].Observer = "B"

	rec, err := repo.GetBySequence(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "A", rec.Observer)
}

func TestDuplicateSequenceKeepsFirst(t *testing.T) {
	repo := NewMeasurementRepository([]models.Measurement{
		{Sequence: 0, Observer: "first"},
		{Sequence: 0, Observer: "second"},
	})
	rec, err := repo.GetBySequence(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "first", rec.Observer)
}
