package facerecog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestMatchWithinThreshold(t *testing.T) {
	templates := []Template{
		{ID: 1, EmployeeID: 10, Embedding: []float64{1, 0, 0}},
		{ID: 2, EmployeeID: 20, Embedding: []float64{0, 1, 0}},
	}

	// Distance 0.5 from template 2, well beyond threshold from template 1.
	tpl, found := BestMatch(templates, []float64{0, 1, 0.5}, DefaultThreshold)
	require.True(t, found)
	assert.Equal(t, int64(20), tpl.EmployeeID)
}

func TestBestMatchThresholdIsExclusive(t *testing.T) {
	templates := []Template{
		{ID: 1, EmployeeID: 10, Embedding: []float64{0, 0, 0}},
	}

	_, found := BestMatch(templates, []float64{0.6, 0, 0}, DefaultThreshold)
	assert.False(t, found, "distance exactly at threshold must not match")

	_, found = BestMatch(templates, []float64{0.59, 0, 0}, DefaultThreshold)
	assert.True(t, found)
}

func TestBestMatchFirstHitWins(t *testing.T) {
	probe := []float64{0, 0, 0}
	templates := []Template{
		{ID: 1, EmployeeID: 10, Embedding: []float64{0.1, 0, 0}},
		{ID: 2, EmployeeID: 20, Embedding: []float64{0, 0, 0}}, // closer, but later
	}

	tpl, found := BestMatch(templates, probe, DefaultThreshold)
	require.True(t, found)
	assert.Equal(t, int64(10), tpl.EmployeeID)
}

func TestBestMatchSkipsEmptyEmbeddings(t *testing.T) {
	templates := []Template{
		{ID: 1, EmployeeID: 10},
		{ID: 2, EmployeeID: 20, Embedding: []float64{0, 0, 0}},
	}

	tpl, found := BestMatch(templates, []float64{0, 0, 0}, DefaultThreshold)
	require.True(t, found)
	assert.Equal(t, int64(20), tpl.EmployeeID)
}

func TestEuclideanDistanceDimensionMismatch(t *testing.T) {
	// A truncated probe must not sneak under the threshold.
	d := euclideanDistance([]float64{0.1, 0.1, 2}, []float64{0.1, 0.1})
	assert.InDelta(t, 2.0, d, 1e-9)
}

func TestCooldownSuppressesRepeatSubmissions(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cd := NewCooldown(client, time.Minute)
	ctx := context.Background()

	ok, err := cd.Acquire(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cd.Acquire(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok, "second submission inside the window must be suppressed")

	// A different employee is unaffected.
	ok, err = cd.Acquire(ctx, 43)
	require.NoError(t, err)
	assert.True(t, ok)

	// After the window expires the employee can clock again.
	mr.FastForward(time.Minute + time.Second)
	ok, err = cd.Acquire(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCooldownDisabledWithoutClient(t *testing.T) {
	cd := NewCooldown(nil, time.Minute)
	ok, err := cd.Acquire(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
}
