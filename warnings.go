package cerco

import (
	"fmt"
	"strings"

	"github.com/lgodoyplay/cerco-sub000/layout"
)

// FormatWarnings renders warnings one per line for logs and terminals.
//
// Example:
//
//	_, warnings, _ := cerco.Compose(report)
//	fmt.Println(cerco.FormatWarnings(warnings))
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// warningNouns gives the singular and plural summary phrase for each kind
var warningNouns = map[layout.WarningKind][2]string{
	layout.ImageUndecodable: {"image could not be embedded", "images could not be embedded"},
	layout.HeightCapped:     {"block was cut to fit a page", "blocks were cut to fit a page"},
	layout.ValueTruncated:   {"value was shortened", "values were shortened"},
	layout.InvalidLink:      {"link is not clickable", "links are not clickable"},
}

// SummarizeWarnings counts warnings by kind in a short sentence such as
// "1 image could not be embedded, 2 values were shortened". It returns an
// empty string when there are no warnings.
func SummarizeWarnings(warnings []Warning) string {
	counts := make(map[layout.WarningKind]int)
	for _, w := range warnings {
		counts[w.Kind]++
	}

	var parts []string
	for _, kind := range []layout.WarningKind{
		layout.ImageUndecodable,
		layout.HeightCapped,
		layout.ValueTruncated,
		layout.InvalidLink,
	} {
		n := counts[kind]
		if n == 0 {
			continue
		}
		noun := warningNouns[kind][0]
		if n > 1 {
			noun = warningNouns[kind][1]
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, noun))
		delete(counts, kind)
	}

	other := 0
	for _, n := range counts {
		other += n
	}
	if other > 0 {
		parts = append(parts, fmt.Sprintf("%d other", other))
	}
	return strings.Join(parts, ", ")
}
