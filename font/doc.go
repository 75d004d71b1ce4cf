// Package font provides PDF Standard 14 font metrics for text measurement.
//
// The PDF backend draws with the core Helvetica fonts, which need no
// embedding. Measuring with the same metrics lets the layout engine wrap
// lines exactly where the rendered text would overflow.
//
// # Character Widths
//
//	f := font.New("Helvetica")
//	width := f.GetWidth('A')             // 667, in 1000ths of em
//	width := f.GetStringWidth("Case")    // string width in font units
//	points := f.StringWidth("Case", 10)  // points at 10pt
//
// # Measurer
//
// [StandardMeasurer] implements the text package's Measurer and BoldMeasurer
// interfaces:
//
//	m := font.NewHelveticaMeasurer()
//	lines := text.Wrap(body, 495, 10, m)
package font
