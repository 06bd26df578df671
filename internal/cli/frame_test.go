package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotelab/memeframe/internal/config"
)

func TestFrame_ExplicitWindow(t *testing.T) {
	store, _ := openTestStore(t)
	seedCluster(t, store, 7)

	// Mixed argument styles: a timestamp and unix seconds.
	cmd := &FrameCommand{
		Cluster: 7,
		Start:   "2008-08-02 00:00:00",
		End:     "1217636400",
		globals: &GlobalFlags{},
	}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, config.DefaultConfig()))
	})

	assert.Contains(t, output, "Cluster 7 (raw)")
	assert.Contains(t, output, "Quotes: 1")
	assert.Contains(t, output, "Freq:   3")
}

func TestFrame_AroundPeakWithSpans(t *testing.T) {
	store, _ := openTestStore(t)
	seedCluster(t, store, 7)

	zero := 0.0
	cmd := &FrameCommand{
		Cluster:    7,
		SpanBefore: &zero,
		SpanAfter:  &zero,
		globals:    &GlobalFlags{JSON: true},
	}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, config.DefaultConfig()))
	})

	var result frameJSON
	require.NoError(t, json.Unmarshal([]byte(output), &result), "output should be valid JSON: %s", output)

	// Zero spans leave exactly the peak day.
	assert.Equal(t, int64(1217592000), result.WindowStart)
	assert.Equal(t, int64(1217678400), result.WindowEnd)
	assert.False(t, result.Empty)
	assert.Equal(t, 2, result.NQuotes)
	assert.Equal(t, 4, result.TotFreq)
	require.Len(t, result.Quotes, 2)
	assert.Equal(t, int64(701), result.Quotes[0].ID)
	assert.Equal(t, 3, result.Quotes[0].TotFreq)
}

func TestFrame_ConfigSpansWidenWindow(t *testing.T) {
	store, _ := openTestStore(t)
	cl := seedCluster(t, store, 7)

	// Default spans of two days on each side cover every occurrence.
	cmd := &FrameCommand{Cluster: 7, globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, config.DefaultConfig()))
	})

	var result frameJSON
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, cl.NQuotes, result.NQuotes)
	assert.Equal(t, cl.TotFreq, result.TotFreq)
}

func TestFrame_EmptyWindow(t *testing.T) {
	store, _ := openTestStore(t)
	seedCluster(t, store, 7)

	cmd := &FrameCommand{
		Cluster: 7,
		Start:   "0",
		End:     "100",
		globals: &GlobalFlags{},
	}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, config.DefaultConfig()))
	})

	assert.Contains(t, output, "nothing in window")
}

func TestFrame_EmptyWindowJSON(t *testing.T) {
	store, _ := openTestStore(t)
	seedCluster(t, store, 7)

	cmd := &FrameCommand{
		Cluster: 7,
		Start:   "0",
		End:     "100",
		globals: &GlobalFlags{JSON: true},
	}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store, config.DefaultConfig()))
	})

	var result frameJSON
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.True(t, result.Empty)
	assert.Zero(t, result.NQuotes)
	assert.Empty(t, result.Quotes)
}

func TestFrame_ClusterNotFound(t *testing.T) {
	store, _ := openTestStore(t)

	cmd := &FrameCommand{Cluster: 999, globals: &GlobalFlags{}}
	err := cmd.executeWithStore(store, config.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestFrame_EndBeforeStartErrors(t *testing.T) {
	store, _ := openTestStore(t)
	seedCluster(t, store, 7)

	cmd := &FrameCommand{Cluster: 7, Start: "200", End: "100", globals: &GlobalFlags{}}
	err := cmd.executeWithStore(store, config.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--end must not be before --start")
}

func TestFrame_BadStartValueErrors(t *testing.T) {
	store, _ := openTestStore(t)
	seedCluster(t, store, 7)

	cmd := &FrameCommand{Cluster: 7, Start: "last tuesday", End: "100", globals: &GlobalFlags{}}
	err := cmd.executeWithStore(store, config.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --start value")
}

// --- parseTimeArg ---

func TestParseTimeArg_Unix(t *testing.T) {
	ts, err := parseTimeArg("1217548802")
	require.NoError(t, err)
	assert.Equal(t, int64(1217548802), ts)
}

func TestParseTimeArg_Timestamp(t *testing.T) {
	ts, err := parseTimeArg("2008-08-01 00:00:02")
	require.NoError(t, err)
	assert.Equal(t, int64(1217548802), ts)
}

func TestParseTimeArg_Negative(t *testing.T) {
	ts, err := parseTimeArg("-43200")
	require.NoError(t, err)
	assert.Equal(t, int64(-43200), ts)
}

func TestParseTimeArg_Rejects(t *testing.T) {
	_, err := parseTimeArg("last tuesday")
	assert.Error(t, err)
}
