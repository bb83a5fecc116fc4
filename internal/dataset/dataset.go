// Package dataset loads country boundaries, either the coarse outlines
// embedded in the binary or a user-supplied file.
package dataset

import (
	"context"
	_ "embed"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"whichcountry/internal/country"
	"whichcountry/internal/geom"
)

//go:embed countries.geojson
var embedded []byte

// Extensions lists the file types Features understands.
var Extensions = []string{".geojson", ".json", ".shp", ".kml", ".csv"}

// Embedded decodes the built-in dataset.
func Embedded() ([]geom.Feature, error) {
	fs, err := geom.DecodeFeatures(embedded)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: embedded")
	}
	return fs, nil
}

// Features loads features from path, picking the decoder by extension. An
// empty path returns the embedded dataset.
func Features(path string) ([]geom.Feature, error) {
	if path == "" {
		return Embedded()
	}
	ext := strings.ToLower(filepath.Ext(path))
	var (
		fs  []geom.Feature
		err error
	)
	switch ext {
	case ".geojson", ".json":
		fs, err = geom.LoadFeatures(path)
	case ".shp":
		fs, err = geom.LoadShapefile(path)
	case ".kml":
		fs, err = geom.LoadKML(path)
	case ".csv":
		fs, err = geom.LoadWKTCSV(path)
	default:
		return nil, eris.Errorf("dataset: unsupported file %q (want one of %s)", filepath.Base(path), strings.Join(Extensions, ", "))
	}
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: load %s", filepath.Base(path))
	}
	return fs, nil
}

// Open loads path and builds the indexed country dataset.
func Open(ctx context.Context, path string, workers int) (*country.Dataset, error) {
	start := time.Now()
	fs, err := Features(path)
	if err != nil {
		return nil, err
	}
	d, err := country.Load(ctx, fs, workers)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: build")
	}
	source := path
	if source == "" {
		source = "embedded"
	}
	zap.L().Debug("dataset: ready",
		zap.String("source", source),
		zap.Int("countries", d.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return d, nil
}
