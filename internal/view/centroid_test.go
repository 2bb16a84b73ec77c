package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/buyer.atlas/internal/survey"
	"github.com/banshee-data/buyer.atlas/internal/testutil"
)

func TestCentroids_ByCluster(t *testing.T) {
	scope := survey.Scope(testutil.Corpus())
	got := Centroids(scope, ByCluster)
	require.Len(t, got, 3)

	c0 := got[GroupKey{Mode: ByCluster, Cluster: 0}]
	assert.Equal(t, 1.0, c0.CX)
	assert.Equal(t, 0.0, c0.CY)
	assert.Equal(t, 2, c0.Count)
	assert.Equal(t, "Cluster 0", c0.Label)

	c2 := got[GroupKey{Mode: ByCluster, Cluster: 2}]
	assert.Equal(t, 9.0, c2.CX)
	assert.Equal(t, 8.0, c2.CY)
}

func TestCentroids_ByModel(t *testing.T) {
	got := Centroids(survey.Scope(testutil.Corpus()), ByModel)
	civic := got[GroupKey{Mode: ByModel, Model: "Civic"}]
	assert.InDelta(t, 2.0, civic.CX, 1e-12)
	assert.InDelta(t, 4.0/3.0, civic.CY, 1e-12)
	assert.Equal(t, 3, civic.Count)
}

func TestCentroids_Empty(t *testing.T) {
	assert.Empty(t, Centroids(nil, ByCluster))
}

func TestSortedCentroids(t *testing.T) {
	corpus := testutil.Corpus()
	keys := KnownKeys(corpus, ByModel)
	// scope without Accord still colors Pilot by its corpus position
	scope := FilterModels(corpus, []string{"Civic", "Pilot"})

	got := SortedCentroids(Centroids(scope, ByModel), keys, DefaultPalette)
	require.Len(t, got, 2)
	assert.Equal(t, "Civic", got[0].Label)
	assert.Equal(t, DefaultPalette[1], got[0].Color)
	assert.Equal(t, "Pilot", got[1].Label)
	assert.Equal(t, DefaultPalette[2], got[1].Color)
}

func TestCollapse(t *testing.T) {
	scope := survey.Scope(testutil.Corpus())
	keys := KnownKeys(scope, ByCluster)
	centroids := Centroids(scope, ByCluster)

	t.Run("t=0 is raw", func(t *testing.T) {
		for _, p := range Collapse(scope, ByCluster, centroids, 0, keys, DefaultPalette) {
			assert.Equal(t, p.RawX, p.X)
			assert.Equal(t, p.RawY, p.Y)
		}
	})

	t.Run("t=1 is centroid exactly", func(t *testing.T) {
		for _, p := range Collapse(scope, ByCluster, centroids, 1, keys, DefaultPalette) {
			c := centroids[p.Key]
			assert.Equal(t, c.CX, p.X)
			assert.Equal(t, c.CY, p.Y)
		}
	})

	t.Run("midway", func(t *testing.T) {
		pts := Collapse(scope, ByCluster, centroids, 0.5, keys, DefaultPalette)
		require.Len(t, pts, 6)
		// record 2 at (2,0), cluster 0 centroid (1,0)
		assert.Equal(t, 1.5, pts[1].X)
		assert.Equal(t, 0.0, pts[1].Y)
		assert.Equal(t, 2.0, pts[1].RawX)
		assert.Equal(t, DefaultPalette[0], pts[1].Color)
	})

	t.Run("out of range t clamps", func(t *testing.T) {
		pts := Collapse(scope, ByCluster, centroids, 7, keys, DefaultPalette)
		assert.Equal(t, 1.0, pts[1].X)
	})

	t.Run("missing centroid stays raw", func(t *testing.T) {
		pts := Collapse(scope, ByCluster, map[GroupKey]Centroid{}, 1, keys, DefaultPalette)
		assert.Equal(t, 10.0, pts[5].X)
	})
}
