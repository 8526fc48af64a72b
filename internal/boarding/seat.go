package boarding // boarding computes deterministic boarding sequences from parsed manifests

import (
	"strings"

	"github.com/iliyamo/flight-boarding/internal/model"
)

// ResolveSeat parses a raw label such as "a12" into a Seat.  A valid label is
// exactly one column letter A–D (case-insensitive) followed by one or two
// decimal digits, nothing else.  Rows are not bounded above: "D99" resolves.
// Any other shape resolves to nothing; callers drop such labels silently and
// keep sequencing the rest of the booking.
func ResolveSeat(label string) (model.Seat, bool) {
	s := strings.ToUpper(strings.TrimSpace(label))
	if len(s) < 2 || len(s) > 3 {
		return model.Seat{}, false
	}
	col := s[0]
	if col < 'A' || col > 'D' {
		return model.Seat{}, false
	}
	row := 0
	for i := 1; i < len(s); i++ {
		ch := s[i]
		if ch < '0' || ch > '9' {
			return model.Seat{}, false
		}
		row = row*10 + int(ch-'0')
	}
	return model.Seat{Row: row, Column: string(col)}, true
}

// IsWindow reports whether the seat sits at the cabin wall.  Columns A and D
// are windows, B and C aisle; the four-column mapping is fixed and closed.
func IsWindow(s model.Seat) bool {
	return s.Column == "A" || s.Column == "D"
}

// IsAisle reports whether the seat borders the aisle.
func IsAisle(s model.Seat) bool {
	return s.Column == "B" || s.Column == "C"
}

// normalizeLabel uppercases and trims a raw seat label so that "a1", " A1 "
// and "A1" all compare equal in priority-table lookups.
func normalizeLabel(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
