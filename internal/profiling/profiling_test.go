package profiling

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackAccumulatesUntilReset(t *testing.T) {
	ResetFrame()

	stop := Track("slow")
	time.Sleep(2 * time.Millisecond)
	stop()
	Track("fast")()
	Track("fast")()

	stats := Snapshot()
	require.Len(t, stats, 2)
	assert.Equal(t, "slow", stats[0].Name)
	assert.Equal(t, 1, stats[0].Calls)
	assert.Equal(t, 2, stats[1].Calls)

	top := TopN(1)
	assert.True(t, strings.HasPrefix(top, "slow:"), top)
	assert.NotContains(t, top, "fast")

	ResetFrame()
	assert.Empty(t, Snapshot())
	assert.Equal(t, "", TopN(5))
}
