package geocsv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `name,lon,lat,population
Springfield,-89.6501,39.7817,120000
Shelbyville,-89.55,39.77,45000
Ogdenville,-89.7,39.8,
`

func TestDetectLonLatColumnsByName(t *testing.T) {
	headers := []string{"name", "lon", "lat", "population"}
	lonIdx, latIdx := DetectLonLatColumns(headers, nil)
	assert.Equal(t, 1, lonIdx)
	assert.Equal(t, 2, latIdx)
}

func TestDetectLonLatColumnsByRange(t *testing.T) {
	headers := []string{"name", "px", "py"}
	sample := [][]string{
		{"a", "12.5", "48.1"},
		{"b", "13.0", "47.9"},
	}
	lonIdx, latIdx := DetectLonLatColumns(headers, sample)
	assert.Equal(t, 1, lonIdx)
	assert.Equal(t, 2, latIdx)
}

func TestIngestReaderBuildsFeatures(t *testing.T) {
	features, err := IngestReader(strings.NewReader(sampleCSV), IngestOptions{Layer: "places", Zoom: 10})
	require.NoError(t, err)
	require.Len(t, features, 3)

	first := features[0]
	assert.Equal(t, "places", first.Layer)
	assert.Equal(t, "Springfield", first.Attrs["name"])
	assert.Equal(t, 120000.0, first.Attrs["population"])
	assert.NotEmpty(t, first.Geometry.Commands)
}

func TestIngestReaderSkipsEmptyAttribute(t *testing.T) {
	features, err := IngestReader(strings.NewReader(sampleCSV), IngestOptions{Layer: "places", Zoom: 10})
	require.NoError(t, err)
	require.Len(t, features, 3)

	ogdenville := features[2]
	_, hasPopulation := ogdenville.Attrs["population"]
	assert.False(t, hasPopulation)
}

func TestIngestReaderMissingCoordinateColumnsErrors(t *testing.T) {
	_, err := IngestReader(strings.NewReader("a,b\nfoo,bar\n"), IngestOptions{Layer: "x"})
	assert.Error(t, err)
}

func TestIngestFileReadsBelowThresholdDirectly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	features, err := IngestFile(path, IngestOptions{Layer: "places", Zoom: 10})
	require.NoError(t, err)
	require.Len(t, features, 3)
	assert.Equal(t, "Springfield", features[0].Attrs["name"])
}

func TestIngestFileAboveThresholdUsesMmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "places.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	features, err := IngestFile(path, IngestOptions{Layer: "places", Zoom: 10, MmapThreshold: 1})
	require.NoError(t, err)
	require.Len(t, features, 3)
	assert.Equal(t, "Springfield", features[0].Attrs["name"])
}
