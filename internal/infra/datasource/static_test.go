package datasource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmnl/pdok-report/internal/domain"
)

func bounds(t *testing.T, s string) domain.Bounds {
	t.Helper()
	b, err := domain.ParseBounds(s)
	require.NoError(t, err)
	return b
}

func TestNewStatic_SkipsInvalid(t *testing.T) {
	s := NewStatic(bounds(t, "5,52,5.1,52.1"), domain.Bounds{})

	assert.Equal(t, 1, s.Len())
}

func TestStatic_Add(t *testing.T) {
	s := NewStatic()
	changes := 0
	s.OnChange(func() { changes++ })

	require.NoError(t, s.Add(bounds(t, "5,52,5.1,52.1")))
	require.NoError(t, s.Add(bounds(t, "5,52,5.1,52.1")))
	require.NoError(t, s.Add(bounds(t, "6,52,6.1,52.1")))

	assert.Len(t, s.DataSourceBounds(), 2)
	assert.Equal(t, 2, changes)
	assert.ErrorIs(t, s.Add(domain.Bounds{}), domain.ErrInvalidBounds)
}

func TestStatic_DataSourceBoundsIsCopy(t *testing.T) {
	s := NewStatic(bounds(t, "5,52,5.1,52.1"))

	got := s.DataSourceBounds()
	got[0] = domain.Bounds{}

	assert.True(t, s.DataSourceBounds()[0].Valid())
}

func TestStatic_Clear(t *testing.T) {
	s := NewStatic(bounds(t, "5,52,5.1,52.1"))
	changes := 0
	s.OnChange(func() { changes++ })

	s.Clear()

	assert.Zero(t, s.Len())
	assert.Equal(t, 1, changes)
}
