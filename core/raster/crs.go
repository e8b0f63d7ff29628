package raster

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/snowline/s1snow/schema"
)

// EPSG4326 is the geographic CRS bounding boxes are exchanged in.
const EPSG4326 = "EPSG:4326"

// edgeSegments is how many pieces each bounding box edge is split into before
// transforming, so curved edges in the target CRS are still enclosed.
const edgeSegments = 8

// ProjString resolves a CRS into a PROJ.4 definition. EPSG codes for WGS84,
// web mercator and the WGS84 UTM zones are translated; anything else is assumed
// to be PROJ.4 or WKT already.
func ProjString(crs string) (string, error) {
	s := strings.TrimSpace(crs)
	if s == "" {
		return "", fmt.Errorf("empty CRS")
	}
	if !strings.HasPrefix(strings.ToUpper(s), "EPSG:") {
		return s, nil
	}
	code, err := strconv.Atoi(strings.TrimSpace(s[len("EPSG:"):]))
	if err != nil {
		return "", fmt.Errorf("invalid EPSG code in %q: %w", crs, err)
	}
	switch {
	case code == 4326:
		return "+proj=longlat +datum=WGS84 +no_defs", nil
	case code == 3857:
		return "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +no_defs", nil
	case code >= 32601 && code <= 32660:
		return fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", code-32600), nil
	case code >= 32701 && code <= 32760:
		return fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", code-32700), nil
	default:
		return "", fmt.Errorf("unsupported EPSG code %d, pass a PROJ.4 string instead", code)
	}
}

// ParseCRS parses a CRS string into a spatial reference.
func ParseCRS(crs string) (*proj.SR, error) {
	def, err := ProjString(crs)
	if err != nil {
		return nil, err
	}
	sr, err := proj.Parse(def)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CRS %q: %w", crs, err)
	}
	return sr, nil
}

// NewTransform returns a transform from src to dst coordinates.
// Identical CRS strings give the identity transform.
func NewTransform(src, dst string) (proj.Transformer, error) {
	if src == dst {
		return func(x, y float64) (float64, float64, error) { return x, y, nil }, nil
	}
	srcSR, err := ParseCRS(src)
	if err != nil {
		return nil, err
	}
	dstSR, err := ParseCRS(dst)
	if err != nil {
		return nil, err
	}
	t, err := srcSR.NewTransform(dstSR)
	if err != nil {
		return nil, fmt.Errorf("failed to build transform %s -> %s: %w", src, dst, err)
	}
	return t, nil
}

// Extent returns the outer edges of a grid, half a cell beyond the outermost centers.
func Extent(y, x []float64) *geom.Bounds {
	hx := halfStep(x)
	hy := halfStep(y)
	return &geom.Bounds{
		Min: geom.Point{X: x[0] - hx, Y: y[len(y)-1] - hy},
		Max: geom.Point{X: x[len(x)-1] + hx, Y: y[0] + hy},
	}
}

func halfStep(axis []float64) float64 {
	if len(axis) < 2 {
		return 0
	}
	return math.Abs(axis[1]-axis[0]) / 2
}

// TransformBounds transforms a bounding box through a densified outline and
// returns the box enclosing the result.
func TransformBounds(b *geom.Bounds, t proj.Transformer) (*geom.Bounds, error) {
	g, err := densePolygon(b).Transform(t)
	if err != nil {
		return nil, fmt.Errorf("failed to transform bounds: %w", err)
	}
	return g.Bounds(), nil
}

func densePolygon(b *geom.Bounds) geom.Polygon {
	dx := (b.Max.X - b.Min.X) / edgeSegments
	dy := (b.Max.Y - b.Min.Y) / edgeSegments
	ring := make([]geom.Point, 0, 4*edgeSegments+1)
	for k := range edgeSegments {
		ring = append(ring, geom.Point{X: b.Min.X + float64(k)*dx, Y: b.Min.Y})
	}
	for k := range edgeSegments {
		ring = append(ring, geom.Point{X: b.Max.X, Y: b.Min.Y + float64(k)*dy})
	}
	for k := range edgeSegments {
		ring = append(ring, geom.Point{X: b.Max.X - float64(k)*dx, Y: b.Max.Y})
	}
	for k := range edgeSegments {
		ring = append(ring, geom.Point{X: b.Min.X, Y: b.Max.Y - float64(k)*dy})
	}
	ring = append(ring, b.Min)
	return geom.Polygon{ring}
}

// Bounds4326 returns the geographic bounding box covering the cube.
func (ts *TimeSeries) Bounds4326() (*geom.Bounds, error) {
	return bounds4326(ts.Y, ts.X, ts.CRS)
}

// Bounds4326 returns the geographic bounding box covering the grid.
func (g *Grid) Bounds4326() (*geom.Bounds, error) {
	return bounds4326(g.Y, g.X, g.CRS)
}

func bounds4326(y, x []float64, crs string) (*geom.Bounds, error) {
	t, err := NewTransform(crs, EPSG4326)
	if err != nil {
		return nil, err
	}
	return TransformBounds(Extent(y, x), t)
}

// Crop cuts the cube to the cells whose centers fall inside a bounding box given in EPSG:4326.
// A box missing the grid returns ErrEmptyInput.
func (ts *TimeSeries) Crop(bbox *geom.Bounds) (*TimeSeries, error) {
	i0, i1, j0, j1, err := cropWindow(ts.Y, ts.X, ts.CRS, bbox)
	if err != nil {
		return nil, err
	}
	return ts.cropIndex(i0, i1, j0, j1), nil
}

// Crop cuts the grid the same way TimeSeries.Crop does.
func (g *Grid) Crop(bbox *geom.Bounds) (*Grid, error) {
	i0, i1, j0, j1, err := cropWindow(g.Y, g.X, g.CRS, bbox)
	if err != nil {
		return nil, err
	}
	nx := len(g.X)
	values := make([]float64, 0, (i1-i0+1)*(j1-j0+1))
	for i := i0; i <= i1; i++ {
		values = append(values, g.Values[i*nx+j0:i*nx+j1+1]...)
	}
	return &Grid{
		Name:   g.Name,
		Units:  g.Units,
		Y:      append([]float64(nil), g.Y[i0:i1+1]...),
		X:      append([]float64(nil), g.X[j0:j1+1]...),
		CRS:    g.CRS,
		Values: values,
	}, nil
}

// cropWindow maps a geographic box onto inclusive row and column ranges of a grid.
func cropWindow(y, x []float64, crs string, bbox *geom.Bounds) (i0, i1, j0, j1 int, err error) {
	t, err := NewTransform(EPSG4326, crs)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	native, err := TransformBounds(bbox, t)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	j0, j1, okX := window(x, native.Min.X, native.Max.X)
	i0, i1, okY := window(y, native.Min.Y, native.Max.Y)
	if !okX || !okY {
		return 0, 0, 0, 0, fmt.Errorf("bounding box %v does not overlap the grid: %w", *bbox, schema.ErrEmptyInput)
	}
	return i0, i1, j0, j1, nil
}
