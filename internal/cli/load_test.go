package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDatasetFixture writes a small two-cluster dataset file and returns its path.
func writeDatasetFixture(t *testing.T) string {
	t.Helper()

	lines := []string{
		"format:",
		"<n_quotes>\t<tot_freq>\t<root>\t<cluster_id>",
		"\t<tot_freq>\t<n_urls>\t<quote>\t<quote_id>",
		"\t\t<timestamp>\t<freq>\t<type>\t<url>",
		"",
		"data:",
		"2\t5\tyes we can yes we can\t1",
		"\t3\t2\tyes we can\t11",
		"\t\t2008-08-01 00:00:02\t2\tM\thttp://example.com/a",
		"\t\t2008-08-02 10:00:00\t1\tB\thttp://example.org/b",
		"\t2\t1\tyes we can can\t12",
		"\t\t2008-08-03 12:30:45\t2\tM\thttp://example.net/c",
		"",
		"1\t1\tchange we can believe in\t2",
		"\t1\t1\tchange we can believe in\t21",
		"\t\t2008-09-01 08:00:00\t1\tB\thttp://example.com/d",
	}

	path := filepath.Join(t.TempDir(), "clusters.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func TestLoad_StoresClusters(t *testing.T) {
	store, _ := openTestStore(t)
	path := writeDatasetFixture(t)

	cmd := &LoadCommand{File: path, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	assert.Contains(t, output, "Loaded 2 clusters")

	ctx := context.Background()
	sids, err := store.ListClusterSIDs(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, sids)

	cl, err := store.GetCluster(ctx, 1, false)
	require.NoError(t, err)
	assert.Equal(t, "yes we can yes we can", cl.Root)
	assert.Equal(t, 2, cl.NQuotes)
	require.Contains(t, cl.Quotes, int64(11))
	assert.Equal(t, []int64{1217548802, 1217548802, 1217671200}, cl.Quotes[11].Timeline().Times())
}

func TestLoad_LimitStopsEarly(t *testing.T) {
	store, _ := openTestStore(t)
	path := writeDatasetFixture(t)

	cmd := &LoadCommand{File: path, Limit: 1, globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	assert.Contains(t, output, "Loaded 1 clusters")

	sids, err := store.ListClusterSIDs(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, sids)
}

func TestLoad_JSONOutput(t *testing.T) {
	store, _ := openTestStore(t)
	path := writeDatasetFixture(t)

	cmd := &LoadCommand{File: path, globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &result), "output should be valid JSON: %s", output)
	assert.Equal(t, float64(2), result["loaded"])
	assert.Equal(t, float64(3), result["quotes"])
	assert.Equal(t, float64(6), result["occurrences"])
	assert.Equal(t, float64(0), result["malformed"])
}

func TestLoad_MissingFileErrors(t *testing.T) {
	store, _ := openTestStore(t)

	cmd := &LoadCommand{File: "/nonexistent/clusters.txt", globals: &GlobalFlags{}}
	err := cmd.executeWithStore(store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset file")
}

func TestLoad_ReloadReplacesClusters(t *testing.T) {
	store, _ := openTestStore(t)
	path := writeDatasetFixture(t)

	cmd := &LoadCommand{File: path, globals: &GlobalFlags{}}
	_ = captureOutput(t, func() { require.NoError(t, cmd.executeWithStore(store)) })
	_ = captureOutput(t, func() { require.NoError(t, cmd.executeWithStore(store)) })

	sids, err := store.ListClusterSIDs(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, sids, "loading twice must not duplicate clusters")
}
