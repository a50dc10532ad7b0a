package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indiamart-etl/config"
	"indiamart-etl/internal/store"
	"indiamart-etl/pkg/errors"
)

const pageA = `<html><body>
	<div class="card">
		<a class="cardlinks" href="/proddetail/steel-pipe-1.html">Steel Pipe</a>
		<p class="price">₹1,200</p>
		<div class="companyname"><a>ABC Co</a></div>
		<div class="newLocationUi"><span class="highlight">Mumbai</span></div>
	</div>
</body></html>`

// pageB repeats the same listing under a different detail link
const pageB = `<html><body>
	<div class="card">
		<a class="cardlinks" href="/proddetail/steel-pipe-99.html">Steel Pipe</a>
		<p class="price">₹1,200</p>
		<div class="companyname"><a>ABC Co</a></div>
		<div class="newLocationUi"><span class="highlight">Mumbai</span></div>
	</div>
</body></html>`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DataDir:       filepath.Join(dir, "pages"),
		RawCSV:        filepath.Join(dir, "products.csv"),
		CleanCSV:      filepath.Join(dir, "products_clean.csv"),
		SearchBaseURL: "https://dir.indiamart.com/search.mp",
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)

	st := store.NewStore(cfg.DataDir)
	_, err := st.Save("pipes", 1, []byte(pageA))
	require.NoError(t, err)
	_, err = st.Save("pipes", 2, []byte(pageB))
	require.NoError(t, err)

	result, err := New(cfg).Run()
	require.NoError(t, err)

	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 0, result.PagesSkipped)
	assert.Equal(t, 2, result.RawRows)
	assert.NotEmpty(t, result.RunID)

	// identical listings collapse to one cleaned row with a numeric price
	rawRows := readCSV(t, cfg.RawCSV)
	assert.Len(t, rawRows, 3)

	cleanRows := readCSV(t, cfg.CleanCSV)
	require.Len(t, cleanRows, 2)
	assert.Equal(t, "Steel Pipe", cleanRows[1][1])
	assert.Equal(t, "1200", cleanRows[1][3])
}

func TestRunEmptyStoreFailsBeforeWriting(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.DataDir, 0755))

	_, err := New(cfg).Run()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindValidation))

	_, statErr := os.Stat(cfg.RawCSV)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(cfg.CleanCSV)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMissingStoreDirectoryIsIOError(t *testing.T) {
	cfg := testConfig(t)

	_, err := New(cfg).Run()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindIO))
}

func TestRunPageWithoutListings(t *testing.T) {
	cfg := testConfig(t)

	st := store.NewStore(cfg.DataDir)
	_, err := st.Save("pipes", 1, []byte(pageA))
	require.NoError(t, err)
	_, err = st.Save("pipes", 2, []byte("<html><body><h1>No results</h1></body></html>"))
	require.NoError(t, err)

	result, err := New(cfg).Run()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 1, result.RawRows)
}

func TestSummaryRendersCounters(t *testing.T) {
	cfg := testConfig(t)

	st := store.NewStore(cfg.DataDir)
	_, err := st.Save("pipes", 1, []byte(pageA))
	require.NoError(t, err)

	result, err := New(cfg).Run()
	require.NoError(t, err)

	summary := result.Summary()
	assert.Contains(t, summary, "pages processed")
	assert.Contains(t, summary, "clean rows")
	assert.Contains(t, summary, result.RunID)
}
