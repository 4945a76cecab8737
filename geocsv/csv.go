// Package geocsv ingests point-feature CSV files into vtile.Feature records,
// the way the teacher's geocsv.go feeds its tippecanoe-style serializer: it
// detects which columns hold spatial coordinates, projects them into a
// single tile's local coordinate space, and turns every remaining non-empty
// cell into an attribute. It exists to exercise the consumer side of
// vtile.CoerceValue and vtile.Tile.AddLayerFeatures with a second, unrelated
// concrete attribute source (CSV cells arrive as strings; everything else
// in this codebase arrives already typed).
package geocsv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/atlasdatatech/govtile/density"
	"github.com/atlasdatatech/govtile/vtile"
)

// lonNames and latNames are the column-name candidates checked before
// falling back to range-based detection, generalized from the teacher's
// ix/iy name lists to the common English spellings a general-purpose
// ingester needs (the teacher's list also matched the Chinese column
// headers its own operators used; this ingester targets a wider, unknown
// CSV population so it drops that site-specific assumption).
var (
	lonNames = []string{"x", "lon", "longitude"}
	latNames = []string{"y", "lat", "latitude"}
)

// DetectLonLatColumns finds the longitude/latitude columns in headers,
// first by name, then — for whichever axis a name match did not resolve —
// by checking which column's sampled values all fall within a valid
// geographic range. It returns -1 for either index it cannot determine.
func DetectLonLatColumns(headers []string, sample [][]string) (lonIdx, latIdx int) {
	byName := func(names []string) int {
		for _, want := range names {
			for i, h := range headers {
				if strings.ToLower(h) == want {
					return i
				}
			}
		}
		return -1
	}

	byRange := func(min, max float64, skip int) int {
		for i := range headers {
			if i == skip {
				continue
			}
			all := true
			for _, row := range sample {
				if i >= len(row) {
					all = false
					break
				}
				f, err := strconv.ParseFloat(row[i], 64)
				if err != nil || f < min || f > max {
					all = false
					break
				}
			}
			if all && len(sample) > 0 {
				return i
			}
		}
		return -1
	}

	lonIdx = byName(lonNames)
	latIdx = byName(latNames)
	if lonIdx < 0 {
		lonIdx = byRange(-180, 180, latIdx)
	}
	if latIdx < 0 {
		latIdx = byRange(-90, 90, lonIdx)
	}
	return
}

// IngestOptions configures IngestReader.
type IngestOptions struct {
	// Layer names the vtile.Tile layer features should be added under; it
	// is stamped onto each Feature.Layer but IngestReader never builds a
	// Tile itself.
	Layer string
	// Zoom is the tile zoom level features are projected for; coordinates
	// are reduced to their position within a single 256x256 tile cell at
	// this zoom via density.EPSG4326.
	Zoom int
	// SampleRows bounds how many data rows DetectLonLatColumns inspects
	// before ingestion proper begins.
	SampleRows int
	// MmapThreshold is the file size, in bytes, above which IngestFile
	// memory-maps the source instead of reading it into a heap buffer. Zero
	// selects DefaultMmapThreshold. Ignored by IngestReader, which never
	// owns a file descriptor to map.
	MmapThreshold int64
}

// DefaultSampleRows matches the teacher's column-sniffing depth.
const DefaultSampleRows = 7

// DefaultMmapThreshold is the IngestFile size cutoff above which the source
// file is memory-mapped rather than copied into the heap, the way the
// teacher's menfile.go avoids double-buffering its large string pool.
const DefaultMmapThreshold = 64 * 1024 * 1024

// IngestReader reads a CSV document from r and returns one Feature per data
// row that has non-empty coordinate cells. A row whose coordinate parses as
// empty, malformed, or whose fields can't be read by the CSV reader is
// skipped with a warning rather than aborting the whole ingest, matching the
// teacher's per-row tolerance.
func IngestReader(r io.Reader, opts IngestOptions) ([]vtile.Feature, error) {
	buffered, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("geocsv: reading input: %w", err)
	}
	return ingest(buffered, opts)
}

// IngestFile ingests the CSV file at path. Files larger than
// opts.MmapThreshold (DefaultMmapThreshold if unset) are memory-mapped with
// MappedFile instead of read into a heap buffer, avoiding a double-buffered
// read of large extracts; smaller files are read directly since mapping a
// small file costs more than it saves.
func IngestFile(path string, opts IngestOptions) ([]vtile.Feature, error) {
	threshold := opts.MmapThreshold
	if threshold <= 0 {
		threshold = DefaultMmapThreshold
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("geocsv: stat %s: %w", path, err)
	}

	if info.Size() <= threshold {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("geocsv: reading %s: %w", path, err)
		}
		return ingest(data, opts)
	}

	mapped, err := OpenMappedFile(path)
	if err != nil {
		return nil, fmt.Errorf("geocsv: mapping %s: %w", path, err)
	}
	defer mapped.Close()
	return ingest(mapped.Bytes(), opts)
}

func ingest(buffered []byte, opts IngestOptions) ([]vtile.Feature, error) {
	if opts.SampleRows <= 0 {
		opts.SampleRows = DefaultSampleRows
	}

	headers, sample, err := sniffHeader(buffered, opts.SampleRows)
	if err != nil {
		return nil, err
	}
	lonIdx, latIdx := DetectLonLatColumns(headers, sample)
	if lonIdx < 0 || latIdx < 0 {
		return nil, fmt.Errorf("geocsv: could not locate longitude/latitude columns in header %v", headers)
	}

	reader := csv.NewReader(bytes.NewReader(buffered))
	reader.Read() // re-consume the header row

	var proj density.EPSG4326
	var features []vtile.Feature
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			log.Warnf("geocsv: row %d: %v", rowNum, err)
			continue
		}
		if lonIdx >= len(row) || latIdx >= len(row) || row[lonIdx] == "" || row[latIdx] == "" {
			log.Warnf("geocsv: row %d: missing coordinate", rowNum)
			continue
		}

		lon, err := strconv.ParseFloat(row[lonIdx], 64)
		if err != nil {
			log.Warnf("geocsv: row %d: bad longitude %q", rowNum, row[lonIdx])
			continue
		}
		lat, err := strconv.ParseFloat(row[latIdx], 64)
		if err != nil {
			log.Warnf("geocsv: row %d: bad latitude %q", rowNum, row[latIdx])
			continue
		}

		x, y := tileLocalCoord(proj, lon, lat, opts.Zoom)
		geom, err := vtile.EncodeGeometry(vtile.Point{X: x, Y: y})
		if err != nil {
			log.Warnf("geocsv: row %d: %v", rowNum, err)
			continue
		}

		attrs := make(map[string]interface{}, len(row))
		var order []string
		for i, cell := range row {
			if i == lonIdx || i == latIdx {
				continue
			}
			if i >= len(headers) {
				continue
			}
			if cell == "" {
				continue
			}
			order = append(order, headers[i])
			if f, err := strconv.ParseFloat(cell, 64); err == nil {
				attrs[headers[i]] = f
			} else {
				attrs[headers[i]] = cell
			}
		}

		features = append(features, vtile.Feature{
			Layer:     opts.Layer,
			Geometry:  geom,
			Attrs:     attrs,
			AttrOrder: order,
			Group:     density.GroupKey(lon, lat, opts.Zoom),
		})
	}

	return features, nil
}

// tileLocalCoord projects (lon, lat) to world pixel space at a resolution of
// 256 pixels per tile (zoom+8 doublings), then reduces it to the [0, 256)
// coordinate within whichever tile cell it falls in.
func tileLocalCoord(proj density.EPSG4326, lon, lat float64, zoom int) (x, y float64) {
	wx, wy := proj.Project(lon, lat, zoom+8)
	return float64(wx % 256), float64(wy % 256)
}

func sniffHeader(data []byte, sampleRows int) (headers []string, sample [][]string, err error) {
	reader := csv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	headers, err = reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("geocsv: reading header: %w", err)
	}
	for len(sample) < sampleRows {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		sample = append(sample, row)
	}
	return headers, sample, nil
}
