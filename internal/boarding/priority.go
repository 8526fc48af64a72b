package boarding

import "github.com/iliyamo/flight-boarding/internal/model"

// PriorityTable maps normalized seat labels to fixed boarding ranks (lower
// rank boards first).  When the distinct seat-label universe of a whole
// batch is a non-empty subset of the table, the ranks replace the general
// back-to-front heuristic entirely.
type PriorityTable map[string]int

// DemoTable is the shipped four-seat priority table: A2 boards first,
// then B2, then A1, then B1.
func DemoTable() PriorityTable {
	return PriorityTable{"A2": 1, "B2": 2, "A1": 3, "B1": 4}
}

// Applies reports whether every seat label across the batch is found in the
// table and at least one label exists.  A batch with any label outside the
// table falls through to the general heuristic.
func (t PriorityTable) Applies(bookings []model.BookingLine) bool {
	seen := false
	for _, b := range bookings {
		for _, raw := range b.SeatLabels {
			if _, ok := t[normalizeLabel(raw)]; !ok {
				return false
			}
			seen = true
		}
	}
	return seen
}

// rank returns the best (minimum) table rank among the booking's labels.
// Labels outside the table are ignored; Applies guarantees at least one
// label is present when the table is in effect.
func (t PriorityTable) rank(b model.BookingLine) int {
	best := 0
	for _, raw := range b.SeatLabels {
		if r, ok := t[normalizeLabel(raw)]; ok && (best == 0 || r < best) {
			best = r
		}
	}
	return best
}
