package hex

import "math"

// SubHex is a point inside a hex, relative to its center. Units are
// arbitrary; only the direction matters.
type SubHex struct {
	X float64
	Y float64
}

// SlotAt picks which of count stacked pieces sits under the point v.
// Two pieces split the hex into two corner regions along the (1,1) axis,
// three pieces split it into 120 degree hexants starting at +X.
// Rules never depend on this; it only serves pointer resolution.
func SlotAt(count int, v SubHex) int {
	switch count {
	case 2:
		if v.X+v.Y < 0 {
			return 0
		}
		return 1
	case 3:
		angle := math.Atan2(v.Y, v.X)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		slot := int(angle / (2 * math.Pi / 3))
		return min(slot, 2)
	default:
		return 0
	}
}
