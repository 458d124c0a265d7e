package document

import "strings"

// Result is the outcome of one patch application.
type Result struct {
	Text string
	// Changed is false when Text is byte-identical to the input; the caller
	// must then skip the file write and every version-control step.
	Changed bool
	// ExtraRegions counts block-shaped regions beyond the first. A value
	// above zero means the document is in an unexpected state: only the
	// first region was replaced and the caller should log a warning.
	ExtraRegions int
}

// region is a half-open line range [start, end).
type region struct {
	start, end int
}

// Patch locates the status block inside doc and replaces it with rendered,
// or appends rendered after one blank line when no block exists. Content
// outside the block is preserved byte-for-byte.
//
// Block grammar: a line beginning with BlockMarker, followed by one or more
// lines beginning with ">", extended greedily.
func Patch(doc, rendered string) Result {
	rendered = strings.TrimSpace(rendered)

	lines := strings.Split(doc, "\n")
	regions := findRegions(lines)

	var out string
	switch {
	case len(regions) == 0:
		trimmed := strings.TrimRight(doc, " \t\r\n")
		if trimmed == "" {
			out = rendered
		} else {
			out = trimmed + "\n\n" + rendered
		}
	default:
		r := regions[0]
		parts := make([]string, 0, len(lines))
		parts = append(parts, lines[:r.start]...)
		parts = append(parts, strings.Split(rendered, "\n")...)
		parts = append(parts, lines[r.end:]...)
		out = strings.Join(parts, "\n")
	}

	extra := 0
	if len(regions) > 1 {
		extra = len(regions) - 1
	}
	return Result{Text: out, Changed: out != doc, ExtraRegions: extra}
}

// findRegions scans for every region matching the block grammar. A marker
// line with no continuation line does not form a block.
func findRegions(lines []string) []region {
	var regions []region
	for i := 0; i < len(lines); {
		if !strings.HasPrefix(lines[i], BlockMarker) {
			i++
			continue
		}
		j := i + 1
		for j < len(lines) && strings.HasPrefix(lines[j], ">") {
			j++
		}
		if j == i+1 {
			i++
			continue
		}
		regions = append(regions, region{start: i, end: j})
		i = j
	}
	return regions
}
