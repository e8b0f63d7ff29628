// Package algo holds the numeric kernels of s1snow: onset extraction, terrain
// derived indices, trend fitting and the elevation and vegetation summaries.
// Everything here is pure computation over raster and schema types.
package algo
