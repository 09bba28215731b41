// Package pixel implements the monochrome register images of small LED matrix displays.
//
// A [Matrix] holds the raw register bytes of one LED matrix. The [ColumnMatrix] and
// [RowMatrix] views address the same bytes column-major and row-major, and are compatible
// with Go's native [color.Color] and [image.Image] / [draw.Image] interfaces.
package pixel
