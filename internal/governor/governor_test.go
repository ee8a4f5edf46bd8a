package governor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zodguard/internal/config"
)

func testLimits() config.Limits {
	return config.Limits{
		TimeoutMs:              50,
		MaxNodeCount:           5,
		MaxObjectDepth:         2,
		MaxChainDepth:          2,
		MaxArgumentNesting:     2,
		MaxPropertiesPerObject: 3,
		MaxStringLength:        10,
	}
}

func TestIncrementNodeTripsNodeLimit(t *testing.T) {
	g := New(testLimits())
	var err error
	for i := 0; i < 10; i++ {
		if err = g.IncrementNode(); err != nil {
			break
		}
	}
	require.ErrorIs(t, err, ErrNodeLimit)
}

func TestIncrementNodeTripsTimeout(t *testing.T) {
	limits := testLimits()
	limits.MaxNodeCount = 1_000_000
	g := New(limits)
	time.Sleep(limits.Timeout() + 20*time.Millisecond)
	// The sleep above is shorter than the 100ms clock-check interval, so
	// the first increment may skip the time check; sleeping past the
	// interval between increments makes a later one observe the timeout.
	var err error
	for i := 0; i < 5; i++ {
		if err = g.IncrementNode(); err != nil {
			break
		}
		time.Sleep(120 * time.Millisecond)
	}
	require.ErrorIs(t, err, ErrTimeout)
}

func TestTrackDepthTripsDepthLimit(t *testing.T) {
	g := New(testLimits())
	require.NoError(t, g.TrackDepth(2, DepthChain), "depth at cap should not fail")
	require.ErrorIs(t, g.TrackDepth(3, DepthChain), ErrDepthLimit)
}

func TestTrackDepthIndependentPerKind(t *testing.T) {
	g := New(testLimits())
	require.NoError(t, g.TrackDepth(2, DepthObject), "object depth at cap should not fail")
	require.NoError(t, g.TrackDepth(2, DepthChain), "chain depth at cap should not fail independently")
	stats := g.Stats()
	assert.Equal(t, 2, stats.MaxDepthReached, "expected shared max_depth_reached of 2")
}

func TestValidateSize(t *testing.T) {
	g := New(testLimits())
	require.NoError(t, g.ValidateSize(3, 3, "properties"), "size at cap should not fail")
	require.ErrorIs(t, g.ValidateSize(4, 3, "properties"), ErrSizeLimit)
}

func TestResetZeroesCounters(t *testing.T) {
	g := New(testLimits())
	_ = g.IncrementNode()
	_ = g.TrackDepth(2, DepthChain)
	g.Reset()
	stats := g.Stats()
	assert.Zero(t, stats.NodeCount)
	assert.Zero(t, stats.MaxDepthReached)
}
