// Package model provides the data structures exchanged with the report
// layout engine.
//
// The input side is the [Report]: case metadata plus an ordered list of
// [Section] values, each holding an ordered list of [Block] values. A Report
// is built once by a data provider and never modified afterwards.
//
// The output side is the [LayoutPlan]: a page-by-page list of [PlacedBlock]
// values with fully resolved coordinates, plus the repeated header and footer
// [Stamp] of every [Page]. Rendering backends consume a LayoutPlan without
// doing any layout work of their own.
//
// # Blocks
//
// All report content implements the [Block] interface. The concrete types are:
//
//   - [HeadingBlock] - a heading line (levels 1-3)
//   - [ParagraphBlock] - word-wrapped body text
//   - [KeyValueBlock] - a bordered two-column label/value grid
//   - [ImageBlock] - embedded raster data with caption and fallback text
//   - [LinkBlock] - a single line carrying a hyperlink
//   - [SignatureBlock] - the signing authority block
//
// # Geometry
//
// All coordinates are in points (1/72 inch) with the origin at the top-left
// corner of the page and Y growing downward:
//
//   - [BBox] - bounding box with containment, intersection and union
//   - [Point] - 2D point with distance calculation
//   - [PageSize] - standard page dimensions ([A4], [Letter], [Legal])
package model
