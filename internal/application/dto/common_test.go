package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/domain"
)

func TestDateRange_Resolve_PorDefectoHoy(t *testing.T) {
	loc := time.FixedZone("PHT", 8*3600)
	now := time.Date(2026, 3, 15, 20, 30, 0, 0, time.UTC) // 2026-03-16 04:30 en PHT

	p, err := dto.DateRange{}.Resolve(loc, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, loc), p.From)
	assert.Equal(t, time.Date(2026, 3, 17, 0, 0, 0, 0, loc), p.To)
}

func TestDateRange_Resolve_RangoInclusivo(t *testing.T) {
	p, err := dto.DateRange{Start: "2026-01-01", End: "2026-01-31"}.Resolve(time.UTC, time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), p.From)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), p.To)
}

func TestDateRange_Resolve_SoloFinal(t *testing.T) {
	p, err := dto.DateRange{End: "2026-05-02"}.Resolve(time.UTC, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, p.To.Sub(p.From))
}

func TestDateRange_Resolve_Errores(t *testing.T) {
	_, err := dto.DateRange{Start: "02/01/2026"}.Resolve(time.UTC, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = dto.DateRange{Start: "2026-02-10", End: "2026-02-01"}.Resolve(time.UTC, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
