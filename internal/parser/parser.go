// Package parser turns raw boarding-manifest text into booking lines.  The
// parser is deliberately forgiving: malformed lines are dropped silently so a
// single bad row never aborts a whole upload.  The only hard failure is a
// manifest that yields no valid bookings at all.
package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/iliyamo/flight-boarding/internal/model"
)

// ErrNoBookings is returned when an entire manifest produces zero valid
// booking lines.  Handlers should translate this into an HTTP 400 response;
// it is an expected validation outcome, not an internal fault.
var ErrNoBookings = errors.New("no valid bookings in manifest")

// ParseLine parses a single manifest line into a BookingLine.  The boolean
// result reports whether the line produced a booking; blank lines, header
// lines, lines with an unparseable id and lines without seat labels all
// yield false without error.
func ParseLine(line string) (model.BookingLine, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.BookingLine{}, false
	}
	fields := strings.Fields(line)
	// A first token containing "booking" marks the column header row.
	if strings.Contains(strings.ToLower(fields[0]), "booking") {
		return model.BookingLine{}, false
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return model.BookingLine{}, false
	}
	// Joining the remaining tokens with no separator removes every run of
	// internal whitespace, so "A20, C2" and "A20,C2" split identically.
	joined := strings.Join(fields[1:], "")
	labels := make([]string, 0, 4)
	for _, tok := range strings.Split(joined, ",") {
		if tok != "" {
			labels = append(labels, tok)
		}
	}
	if len(labels) == 0 {
		return model.BookingLine{}, false
	}
	return model.BookingLine{ID: id, SeatLabels: labels}, true
}

// Parse splits manifest text into lines and collects every valid booking.
// It returns ErrNoBookings when nothing in the input parses; a manifest of
// only headers and noise is a validation failure, never an empty success.
func Parse(text string) ([]model.BookingLine, error) {
	var bookings []model.BookingLine
	for _, line := range strings.Split(text, "\n") {
		if b, ok := ParseLine(line); ok {
			bookings = append(bookings, b)
		}
	}
	if len(bookings) == 0 {
		return nil, ErrNoBookings
	}
	return bookings, nil
}
