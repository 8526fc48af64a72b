package boarding

import (
	"sort"

	"github.com/iliyamo/flight-boarding/internal/model"
)

// NoSeatRow is the MaxRow sentinel for a booking whose labels all failed to
// resolve.  It is strictly less than any real row, so such bookings sort as
// if seated nearest the front and board last.
const NoSeatRow = -1

// Score derives the ordering fields for one booking and returns a fresh
// ScoredBooking; the input line is never modified.  Unresolvable labels are
// skipped, and every resolvable column is either window or aisle.
func Score(b model.BookingLine) model.ScoredBooking {
	sb := model.ScoredBooking{Booking: b, MaxRow: NoSeatRow}
	for _, raw := range b.SeatLabels {
		seat, ok := ResolveSeat(raw)
		if !ok {
			continue
		}
		if seat.Row > sb.MaxRow {
			sb.MaxRow = seat.Row
		}
		if IsWindow(seat) {
			sb.WindowCount++
		} else {
			sb.AisleCount++
		}
	}
	return sb
}

// Sequencer turns a batch of parsed bookings into a boarding call order.
// The priority table takes absolute precedence whenever it applies to the
// whole batch; otherwise the back-to-front heuristic orders by deepest row,
// then window-seat count, then booking id.  Sequencing is a pure batch
// transform: same input, same output, no shared state across calls.
type Sequencer struct {
	Table PriorityTable
}

// New returns a Sequencer carrying the shipped demo priority table.
func New() *Sequencer {
	return &Sequencer{Table: DemoTable()}
}

// Sequence computes the boarding order for the batch.  Every input booking
// produces exactly one entry and Seq values run 1..N with no gaps.
func (s *Sequencer) Sequence(bookings []model.BookingLine) []model.BoardingEntry {
	ordered := make([]model.BookingLine, len(bookings))
	copy(ordered, bookings)

	if s.Table.Applies(ordered) {
		sort.Slice(ordered, func(i, j int) bool {
			ri, rj := s.Table.rank(ordered[i]), s.Table.rank(ordered[j])
			if ri != rj {
				return ri < rj
			}
			return ordered[i].ID < ordered[j].ID
		})
	} else {
		scored := make([]model.ScoredBooking, len(ordered))
		for i, b := range ordered {
			scored[i] = Score(b)
		}
		sort.Slice(scored, func(i, j int) bool {
			a, b := scored[i], scored[j]
			if a.MaxRow != b.MaxRow {
				return a.MaxRow > b.MaxRow // deeper rows board first
			}
			if a.WindowCount != b.WindowCount {
				return a.WindowCount > b.WindowCount
			}
			return a.Booking.ID < b.Booking.ID
		})
		for i, sb := range scored {
			ordered[i] = sb.Booking
		}
	}

	entries := make([]model.BoardingEntry, len(ordered))
	for i, b := range ordered {
		entries[i] = model.BoardingEntry{Seq: i + 1, BookingID: b.ID}
	}
	return entries
}
