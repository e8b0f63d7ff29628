// Package synth writes synthetic scenes in the long-format Parquet layout the
// CLI reads. The scenes back the demo program, the benchmark and the tests.
package synth

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/snowline/s1snow/internal/parquet"
)

// Defaults of a generated scene.
const (
	DefaultSize    = 32
	DefaultWeeks   = 20
	DefaultSpacing = 0.001 // degrees, about 100 m

	originY = 46.5
	originX = 11.0

	minElevation = 800.0
	maxElevation = 2400.0

	dryBackscatter     = -8.0
	wetBackscatter     = -16.0
	refrozeBackscatter = -11.0
	noise              = 0.4
)

// DefaultStart is the first acquisition of a generated scene.
var DefaultStart = time.Date(2024, 2, 5, 5, 30, 0, 0, time.UTC)

// Options controls the generated scene.
type Options struct {
	Size    int       // cells per side
	Weeks   int       // weekly acquisitions
	Start   time.Time // first acquisition
	Spacing float64   // cell spacing in degrees
	Seed    uint64
	Optical bool // also write two optical scenes
}

// withDefaults fills zero fields.
func (o Options) withDefaults() Options {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.Weeks <= 0 {
		o.Weeks = DefaultWeeks
	}
	if o.Start.IsZero() {
		o.Start = DefaultStart
	}
	if o.Spacing <= 0 {
		o.Spacing = DefaultSpacing
	}
	return o
}

// Scene holds the paths of a written scene.
type Scene struct {
	Dir         string
	Backscatter string
	Optical     string // empty unless requested
	DEM         string
	Aspect      string
	Slope       string
	Cells       int
	Samples     int
}

// Args returns the input flags of an onset run on the scene.
func (s Scene) Args() []string {
	args := []string{"--backscatter", s.Backscatter, "--dem", s.DEM, "--aspect", s.Aspect, "--slope", s.Slope}
	if s.Optical != "" {
		args = append(args, "--optical", s.Optical)
	}
	return args
}

// Elevation is the DEM value of cell (i, j): a ramp rising toward the north-east corner.
func Elevation(size, i, j int) float64 {
	if size < 2 {
		return minElevation
	}
	frac := float64((size-1-i)+j) / float64(2*(size-1))
	return minElevation + frac*(maxElevation-minElevation)
}

// OnsetWeek is the week of the backscatter minimum of a cell at the given elevation.
// Onset runs later with elevation and stays clear of the first and last two weeks.
func OnsetWeek(weeks int, elevation float64) int {
	span := weeks - 5
	if span < 0 {
		span = 0
	}
	frac := (elevation - minElevation) / (maxElevation - minElevation)
	return 2 + int(math.Round(frac*float64(span)))
}

// Write generates a scene under dir. The directory is created when missing.
func Write(dir string, opts Options) (Scene, error) {
	opts = opts.withDefaults()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Scene{}, fmt.Errorf("failed to create scene dir %s: %w", dir, err)
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5eed))

	n := opts.Size
	ys := make([]float64, n)
	xs := make([]float64, n)
	for k := range n {
		ys[k] = originY - float64(k)*opts.Spacing
		xs[k] = originX + float64(k)*opts.Spacing
	}

	dem := make([]parquet.GridCell, 0, n*n)
	aspect := make([]parquet.GridCell, 0, n*n)
	slope := make([]parquet.GridCell, 0, n*n)
	for i := range n {
		for j := range n {
			dem = append(dem, parquet.GridCell{Y: ys[i], X: xs[j], Value: ptr(Elevation(n, i, j) + rng.NormFloat64()*5)})
			aspect = append(aspect, parquet.GridCell{Y: ys[i], X: xs[j], Value: ptr(float64((i*53 + j*37) % 360))})
			slope = append(slope, parquet.GridCell{Y: ys[i], X: xs[j], Value: ptr(5 + float64((i*7+j*11)%30))})
		}
	}

	samples := make([]parquet.BackscatterSample, 0, opts.Weeks*n*n)
	for w := range opts.Weeks {
		when := opts.Start.AddDate(0, 0, 7*w)
		for i := range n {
			for j := range n {
				onset := OnsetWeek(opts.Weeks, Elevation(n, i, j))
				v := dryBackscatter
				switch {
				case w == onset:
					v = wetBackscatter
				case w > onset:
					v = refrozeBackscatter
				}
				samples = append(samples, parquet.BackscatterSample{
					Time:  when,
					Orbit: "ASCENDING",
					Band:  "gamma0_vv",
					Y:     ys[i],
					X:     xs[j],
					Value: ptr(v + rng.NormFloat64()*noise),
				})
			}
		}
	}

	scene := Scene{
		Dir:         dir,
		Backscatter: filepath.Join(dir, "backscatter.parquet"),
		DEM:         filepath.Join(dir, "dem.parquet"),
		Aspect:      filepath.Join(dir, "aspect.parquet"),
		Slope:       filepath.Join(dir, "slope.parquet"),
		Cells:       n * n,
		Samples:     len(samples),
	}
	if err := parquet.WriteFile(samples, scene.Backscatter); err != nil {
		return Scene{}, err
	}
	for path, cells := range map[string][]parquet.GridCell{scene.DEM: dem, scene.Aspect: aspect, scene.Slope: slope} {
		if err := parquet.WriteFile(cells, path); err != nil {
			return Scene{}, err
		}
	}

	if opts.Optical {
		scene.Optical = filepath.Join(dir, "optical.parquet")
		if err := parquet.WriteFile(opticalSamples(opts, ys, xs), scene.Optical); err != nil {
			return Scene{}, err
		}
	}
	return scene, nil
}

// opticalSamples writes a clear and a cloudy scene. Vegetation thins with
// elevation, so NDVI falls from dense in the valley to bare on the ridge.
func opticalSamples(opts Options, ys, xs []float64) []parquet.OpticalSample {
	n := len(ys)
	scenes := []struct {
		when  time.Time
		cloud float64
	}{
		{opts.Start.AddDate(0, 0, -30), 3},
		{opts.Start.AddDate(0, 0, -20), 85},
	}
	out := make([]parquet.OpticalSample, 0, len(scenes)*n*n)
	for _, s := range scenes {
		for i := range n {
			for j := range n {
				frac := (Elevation(n, i, j) - minElevation) / (maxElevation - minElevation)
				ndvi := 0.8 - 0.8*frac
				red := 0.1
				nir := red * (1 + ndvi) / (1 - ndvi)
				out = append(out, parquet.OpticalSample{
					Time:       s.when,
					CloudCover: s.cloud,
					Y:          ys[i],
					X:          xs[j],
					Red:        ptr(red),
					NIR:        ptr(nir),
				})
			}
		}
	}
	return out
}

func ptr(v float64) *float64 { return &v }
