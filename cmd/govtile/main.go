// Command govtile is a small driver over the vtile codec: it ingests a
// point CSV, builds a single encoded tile from it, and writes that tile into
// an MBTiles database. It plays the role the teacher's main.go plays for
// gotiler — the CLI entry point wiring ingestion, memory accounting, and
// storage around the encoder — generalized from gotiler's multi-stage
// tippecanoe pipeline down to the one-shot encode/store path this codec's
// scope actually covers.
package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/shirou/gopsutil/mem"

	"github.com/atlasdatatech/govtile/geocsv"
	"github.com/atlasdatatech/govtile/mbtilestore"
	"github.com/atlasdatatech/govtile/vtile"
)

func main() {
	csvPath := flag.String("csv", "", "input CSV file of point features (required)")
	out := flag.String("out", "out.mbtiles", "output MBTiles database path")
	layerName := flag.String("layer", "points", "MVT layer name to write features under")
	zoom := flag.Int("zoom", 14, "tile zoom level features are projected and bucketed at")
	tileZ := flag.Int("tile-z", 0, "zoom of the single tile written to the MBTiles store")
	tileX := flag.Int("tile-x", 0, "tile column written to the MBTiles store")
	tileY := flag.Int("tile-y", 0, "tile row written to the MBTiles store")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	vtile.Warn = func(format string, args ...interface{}) {
		log.Warnf(format, args...)
	}

	if *csvPath == "" {
		fmt.Fprintln(os.Stderr, "govtile: -csv is required")
		flag.Usage()
		os.Exit(2)
	}

	checkMemory()

	features, err := geocsv.IngestFile(*csvPath, geocsv.IngestOptions{Layer: *layerName, Zoom: *zoom})
	if err != nil {
		log.Fatalf("govtile: ingesting %s: %v", *csvPath, err)
	}
	log.Infof("govtile: ingested %d features from %s", len(features), *csvPath)

	tile := vtile.NewTile()
	tile.AddLayerFeatures(*layerName, features)
	encoded := tile.Encode()
	log.Infof("govtile: encoded tile: %d bytes", len(encoded))

	store, err := mbtilestore.Open(*out)
	if err != nil {
		log.Fatalf("govtile: opening %s: %v", *out, err)
	}
	defer store.Close()

	if err := store.WriteTile(*tileZ, *tileX, *tileY, encoded); err != nil {
		log.Fatalf("govtile: writing tile: %v", err)
	}
	if err := store.WriteMetadata("name", *layerName); err != nil {
		log.Fatalf("govtile: writing metadata: %v", err)
	}

	log.Infof("govtile: wrote tile z=%d x=%d y=%d to %s", *tileZ, *tileX, *tileY, *out)
}

// checkMemory logs available system memory before ingestion starts, the way
// the teacher's radix function reports mem.VirtualMemory() before committing
// to an in-memory sort strategy. This driver always holds ingested features
// in memory, so a low-memory warning here is the caller's only signal before
// a large CSV causes thrashing.
func checkMemory() {
	v, err := mem.VirtualMemory()
	if err != nil {
		log.Warnf("govtile: reading system memory: %v", err)
		return
	}
	log.Infof("govtile: system memory: total=%d available=%d used_percent=%.1f%%", v.Total, v.Available, v.UsedPercent)
	if v.UsedPercent > 90 {
		log.Warnf("govtile: system memory usage is high (%.1f%%); large CSV ingestion may exhaust available memory", v.UsedPercent)
	}
}
