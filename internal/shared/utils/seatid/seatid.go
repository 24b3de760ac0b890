// Package seatid parses the seat identifier convention used across the
// booking flow: SECTION-ROW-SEAT (e.g. ORC-R1-S5) or the prefixed form
// SEC-SECTION-ROW-SEAT (e.g. SEC-A-R3-S12). Everything but the section is
// treated as opaque; pricing only needs the section code.
package seatid

import (
	"strconv"
	"strings"
)

// Parsed holds the components of a seat identifier.
type Parsed struct {
	Section string
	Row     int
	Seat    int
}

// Section extracts the section code from a seat identifier. It never fails:
// an identifier without enough tokens yields its first token, matching how
// the booking flow treats malformed ids (priced against an unknown zone).
func Section(seatID string) string {
	tokens := strings.Split(seatID, "-")
	if len(tokens) > 1 && tokens[0] == "SEC" {
		return tokens[1]
	}
	return tokens[0]
}

// Parse splits a seat identifier into section, row and seat number. Row and
// seat are zero when their tokens are missing or not of the R{n}/S{n} form.
func Parse(seatID string) Parsed {
	tokens := strings.Split(seatID, "-")
	if len(tokens) > 0 && tokens[0] == "SEC" {
		tokens = tokens[1:]
	}

	p := Parsed{}
	if len(tokens) > 0 {
		p.Section = tokens[0]
	}
	for _, tok := range tokens[1:] {
		if len(tok) < 2 {
			continue
		}
		n, err := strconv.Atoi(tok[1:])
		if err != nil {
			continue
		}
		switch tok[0] {
		case 'R':
			p.Row = n
		case 'S':
			p.Seat = n
		}
	}
	return p
}

// Valid reports whether the identifier carries a section plus parseable row
// and seat tokens.
func Valid(seatID string) bool {
	p := Parse(seatID)
	return p.Section != "" && p.Row > 0 && p.Seat > 0
}
