// Package apperr defines shared error sentinels for the wallcheck application.
// It is a leaf package with no internal imports, allowing any package
// (including low-level probe code) to use the sentinels without creating
// import cycles.
package apperr
