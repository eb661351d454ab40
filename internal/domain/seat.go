package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MaxRowLabelLen bounds the row letters of a seat identifier. Six letters address
// over 300 million rows.
const MaxRowLabelLen = 6

// SeatID addresses one seat inside a hall, e.g. "C-5": row letters derived from
// the zero-based row index followed by the 1-based column number.
type SeatID string

// FormatSeatID builds the identifier for a zero-based row and a zero-based column.
func FormatSeatID(row, col int) SeatID {
	return SeatID(fmt.Sprintf("%s-%d", rowLabel(row), col+1))
}

// ParseSeatID returns the zero-based row and column addressed by id.
func ParseSeatID(id SeatID) (row, col int, err error) {
	label, num, ok := strings.Cut(string(id), "-")
	if !ok || label == "" || num == "" {
		return 0, 0, fmt.Errorf("malformed seat identifier %q", id)
	}

	row, err = rowIndex(label)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed seat identifier %q: %w", id, err)
	}

	if rowLabel(row) != label {
		return 0, 0, fmt.Errorf("malformed seat identifier %q: bad row", id)
	}

	n, err := strconv.Atoi(num)
	if err != nil || n < 1 || strconv.Itoa(n) != num {
		return 0, 0, fmt.Errorf("malformed seat identifier %q: bad column", id)
	}

	return row, n - 1, nil
}

// rowLabel converts 0 -> A, 25 -> Z, 26 -> AA, 27 -> AB and so on.
func rowLabel(row int) string {
	var b []byte
	for n := row + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}

	return string(b)
}

func rowIndex(label string) (int, error) {
	if len(label) > MaxRowLabelLen {
		return 0, fmt.Errorf("row label %q is longer than %d letters", label, MaxRowLabelLen)
	}

	n := 0
	for _, ch := range label {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("bad row label %q", label)
		}
		n = n*26 + int(ch-'A'+1)
	}

	return n - 1, nil
}

// SeatSet is an unordered set of seat identifiers.
type SeatSet map[SeatID]struct{}

func NewSeatSet(seats ...SeatID) SeatSet {
	set := make(SeatSet, len(seats))
	for _, s := range seats {
		set[s] = struct{}{}
	}

	return set
}

func (s SeatSet) Has(seat SeatID) bool {
	_, ok := s[seat]
	return ok
}

// Sorted returns the members ordered by row, then column. Malformed ids sort last
// in plain string order.
func (s SeatSet) Sorted() []SeatID {
	seats := make([]SeatID, 0, len(s))
	for seat := range s {
		seats = append(seats, seat)
	}

	SortSeats(seats)

	return seats
}

// SortSeats orders seats by row, then column.
func SortSeats(seats []SeatID) {
	sort.Slice(seats, func(i, j int) bool {
		ri, ci, erri := ParseSeatID(seats[i])
		rj, cj, errj := ParseSeatID(seats[j])

		switch {
		case erri == nil && errj == nil:
			return ri < rj || (ri == rj && ci < cj)
		case erri == nil || errj == nil:
			return erri == nil
		default:
			return seats[i] < seats[j]
		}
	})
}
