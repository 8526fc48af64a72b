package model

// BookingLine is one parsed row of an uploaded boarding manifest.  A line
// carries the integer booking id followed by one or more raw seat labels.
// Labels are kept exactly as uploaded (minus whitespace); normalization and
// validation happen later in the seat resolver.
//
// Fields:
//  ID         – booking identifier parsed from the first token of the line.
//  SeatLabels – raw seat tokens such as "A1" or "b20", never empty.
type BookingLine struct {
	ID         int      // booking id from the manifest line
	SeatLabels []string // raw seat labels, whitespace already stripped
}

// Seat is a resolved cabin coordinate.  The cabin uses a fixed four-column
// scheme: A and D sit at the windows, B and C at the aisle.
type Seat struct {
	Row    int    // 1-based cabin row, deeper rows board earlier
	Column string // one of A, B, C, D
}

// ScoredBooking wraps a BookingLine with the derived fields the sequencer
// orders by.  It is built fresh for every sequencing run; the underlying
// BookingLine is never mutated.
type ScoredBooking struct {
	Booking     BookingLine // the parsed line being scored
	MaxRow      int         // deepest resolvable row, or NoSeatRow sentinel
	WindowCount int         // resolved seats in columns A or D
	AisleCount  int         // resolved seats in columns B or C
}

// BoardingEntry is one position in the computed boarding call order.  Seq
// values are contiguous starting at 1; every valid booking from the manifest
// appears exactly once.
type BoardingEntry struct {
	Seq       int `json:"seq"`        // 1-based boarding call position
	BookingID int `json:"booking_id"` // booking called at this position
}
