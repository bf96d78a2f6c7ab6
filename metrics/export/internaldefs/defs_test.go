package internaldefs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	goAuthState "github.com/MrEthical07/goAuthState"
)

func TestEveryMetricHasOneDefinition(t *testing.T) {
	seen := map[goAuthState.MetricID]string{}
	names := map[string]bool{}
	for _, d := range CounterDefs {
		seen[d.ID] = d.Name
		assert.False(t, names[d.Name], "duplicate name %s", d.Name)
		names[d.Name] = true
	}
	for _, d := range HistogramDefs {
		seen[d.ID] = d.Name
	}
	assert.Len(t, seen, goAuthState.MetricIDCount)
}

func TestBucketLayout(t *testing.T) {
	assert.Len(t, HistogramBoundSuffix, BucketCount)
	assert.Len(t, HistogramUpperBounds, BucketCount-1)

	got := CumulativeBuckets(NormalizeBuckets([]uint64{1, 2, 3}))
	assert.Equal(t, [BucketCount]uint64{1, 3, 6, 6, 6, 6, 6, 6}, got)
}
