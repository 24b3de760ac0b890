package seats

import (
	"fmt"
	"sort"
	"strings"
)

// Seat grid rendering geometry, in SVG user units.
const (
	svgSeatSize    = 18
	svgSeatPitch   = 22
	svgRowPitch    = 22
	svgSectionGap  = 30
	svgLabelHeight = 16
)

func seatFill(status SeatStatus) string {
	switch status {
	case SeatHeld:
		return "#f0ad4e"
	case SeatSold:
		return "#999999"
	default:
		return "#5cb85c"
	}
}

// renderPlanSVG draws each section as a labelled grid of seat squares
// colored by status. Seat positions come straight from the parsed row and
// seat numbers, so the drawing matches the venue's own numbering.
func renderPlanSVG(sections map[string][]PlanSeat) string {
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	var body strings.Builder
	width := 0
	yOffset := 0

	for _, name := range names {
		seats := sections[name]

		maxRow, maxSeat := 1, 1
		for _, seat := range seats {
			if seat.Row > maxRow {
				maxRow = seat.Row
			}
			if seat.Seat > maxSeat {
				maxSeat = seat.Seat
			}
		}

		body.WriteString(fmt.Sprintf(`<text x="0" y="%d" font-size="14">%s</text>`,
			yOffset+svgLabelHeight-2, name))

		gridTop := yOffset + svgLabelHeight
		for _, seat := range seats {
			x := (seat.Seat - 1) * svgSeatPitch
			y := gridTop + (seat.Row-1)*svgRowPitch
			body.WriteString(fmt.Sprintf(
				`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" data-seat-id="%s"/>`,
				x, y, svgSeatSize, svgSeatSize, seatFill(seat.Status), seat.SeatID))
		}

		if sectionWidth := maxSeat * svgSeatPitch; sectionWidth > width {
			width = sectionWidth
		}
		yOffset = gridTop + maxRow*svgRowPitch + svgSectionGap
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, yOffset, width, yOffset))
	b.WriteString(body.String())
	b.WriteString(`</svg>`)
	return b.String()
}
