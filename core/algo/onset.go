package algo

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/snowline/s1snow/core/raster"
	"github.com/snowline/s1snow/schema"
)

// hoursPerWeek converts elapsed hours into the weekly unit of the ripening derivative.
const hoursPerWeek = 24 * 7

// OnsetOptions tune onset extraction.
type OnsetOptions struct {
	Workers int                  // Row-band goroutines; <= 0 uses GOMAXPROCS
	Missing schema.MissingPolicy // Treatment of gaps inside a pixel series; "" means skip
}

// pixelFunc picks the onset time index of one pixel series, or reports it undefined.
type pixelFunc func(series []float64, times []time.Time, policy schema.MissingPolicy) (int, bool)

// RunoffOnset returns, per pixel, the timestamp of minimum backscatter.
// A pixel whose first sample is missing has no onset.
func RunoffOnset(ctx context.Context, ts *raster.TimeSeries, opts OnsetOptions) (*raster.OnsetGrid, error) {
	if ts == nil || len(ts.Times) == 0 {
		return nil, schema.ErrEmptyInput
	}
	return extract(ctx, ts, opts, runoffIndex)
}

// RipeningOnset returns, per pixel, the timestamp of the steepest backscatter drop on
// the given orbit direction (ascending when empty). The derivative is taken against the
// true acquisition times in backscatter units per week.
func RipeningOnset(ctx context.Context, ts *raster.TimeSeries, direction schema.OrbitDirection, opts OnsetOptions) (*raster.OnsetGrid, error) {
	if ts == nil || len(ts.Times) == 0 {
		return nil, schema.ErrEmptyInput
	}
	if direction == "" {
		direction = schema.Ascending
	}
	filtered, err := ts.FilterOrbit(direction)
	if err != nil {
		return nil, fmt.Errorf("ripening onset: %w", err)
	}
	return extract(ctx, filtered, opts, ripeningIndex)
}

// band is a half-open range of grid rows handled by one worker.
type band struct {
	from, to int
}

// extract runs pick over every pixel, spreading row bands across a worker pool.
// Each worker writes disjoint cells, so the result does not depend on scheduling.
func extract(ctx context.Context, ts *raster.TimeSeries, opts OnsetOptions, pick pixelFunc) (*raster.OnsetGrid, error) {
	nt, ny, nx := ts.Shape()
	out := raster.NewOnsetGrid(ts.Y, ts.X, ts.CRS)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, ny)
	policy := opts.Missing
	if policy == "" {
		policy = schema.MissingSkip
	}

	rowsPerBand := max(1, ny/(workers*4))
	bandCh := make(chan band, ny/rowsPerBand+1)
	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			series := make([]float64, 0, nt)
			for b := range bandCh {
				if ctx.Err() != nil {
					continue
				}
				for i := b.from; i < b.to; i++ {
					for j := range nx {
						series = ts.Pixel(i, j, series)
						idx, ok := pick(series, ts.Times, policy)
						if !ok {
							continue
						}
						out.Onsets[i*nx+j] = schema.Onset{Time: ts.Times[idx], Index: idx, Valid: true}
					}
				}
			}
		})
	}

	for from := 0; from < ny; from += rowsPerBand {
		bandCh <- band{from: from, to: min(from+rowsPerBand, ny)}
	}
	close(bandCh)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// runoffIndex is the argmin over valid samples, first occurrence on ties.
func runoffIndex(series []float64, _ []time.Time, policy schema.MissingPolicy) (int, bool) {
	if len(series) == 0 || !schema.IsValid(series[0]) {
		return 0, false
	}
	best := 0
	for t := 1; t < len(series); t++ {
		v := series[t]
		if !schema.IsValid(v) {
			if policy == schema.MissingStrict {
				return 0, false
			}
			continue
		}
		if v < series[best] {
			best = t
		}
	}
	return best, true
}

// ripeningIndex is the argmin of the time derivative over valid samples.
func ripeningIndex(series []float64, times []time.Time, policy schema.MissingPolicy) (int, bool) {
	if len(series) < 2 || !schema.IsValid(series[0]) {
		return 0, false
	}

	idx := make([]int, 0, len(series))
	for t, v := range series {
		if schema.IsValid(v) {
			idx = append(idx, t)
		} else if policy == schema.MissingStrict {
			return 0, false
		}
	}
	if len(idx) < 2 {
		return 0, false
	}

	values := make([]float64, len(idx))
	weeks := make([]float64, len(idx))
	origin := times[idx[0]]
	for k, t := range idx {
		values[k] = series[t]
		weeks[k] = times[t].Sub(origin).Hours() / hoursPerWeek
	}

	grad := Gradient(values, weeks)
	best := 0
	for k := 1; k < len(grad); k++ {
		if grad[k] < grad[best] {
			best = k
		}
	}
	return idx[best], true
}
