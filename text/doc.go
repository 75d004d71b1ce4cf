// Package text provides text measurement and line wrapping for the report
// layout engine.
//
// # Measurement
//
// Every width computation goes through the [Measurer] interface:
//
//	w := m.Width("Case BO-2026-0042", 10) // points at 10pt
//
// Two implementations live here:
//
//   - [AverageMeasurer] - a fixed average character width (the default).
//     Fast and font-independent; East Asian wide runes count double and
//     combining marks count zero.
//   - [GlyphMeasurer] - real glyph advances of the Go Regular font.
//
// The font package adds a third, [github.com/lgodoyplay/cerco-sub000/font.StandardMeasurer],
// using the PDF Standard 14 metrics the PDF backend draws with.
//
// # Wrapping
//
// [Wrap] greedily breaks text into lines no wider than a maximum width,
// keeping hard line breaks and splitting words that are wider than a line.
// [Ellipsize] shortens a single line to fit.
//
// # Rich Text
//
// [PlainText] reduces the light markup produced by the dashboard's rich-text
// editor to plain text with line breaks.
package text
