package format

import (
	"fmt"
	"math"
)

// ScaleMapping converts a slider position into the scale value handed to the
// chart. Each page picks exactly one mapping.
type ScaleMapping interface {
	Value(position int) int
	Bounds() (minPos, maxPos int)
}

// LinearScale maps a position one-to-one onto a value, clamped to [Min, Max].
type LinearScale struct {
	Min int
	Max int
}

func (s LinearScale) Value(position int) int {
	return clamp(position, s.Min, s.Max)
}

func (s LinearScale) Bounds() (int, int) { return s.Min, s.Max }

// LogScale maps positions in [0, Steps] onto [MinValue, MaxValue] on a base-2
// logarithmic curve, rounding up.
type LogScale struct {
	MinValue float64
	MaxValue float64
	Steps    int
}

const ceilTolerance = 1e-6

// DefaultLogScale is the 1.0x to 100.0x view scale of the scheduler page.
var DefaultLogScale = LogScale{MinValue: 100, MaxValue: 10000, Steps: 100}

func (s LogScale) Value(position int) int {
	position = clamp(position, 0, s.Steps)
	lo := math.Log2(s.MinValue)
	hi := math.Log2(s.MaxValue)
	step := (hi - lo) / float64(s.Steps)
	v := math.Pow(2, lo+step*float64(position))
	// Pow(2, Log2(x)) lands a hair above x; absorb that before rounding up.
	return int(math.Ceil(v - ceilTolerance))
}

func (s LogScale) Bounds() (int, int) { return 0, s.Steps }

// ViewScaleText renders a view scale value (100 == 1x) as "1.0x", "2.5x".
func ViewScaleText(value int) string {
	scale := math.Round(float64(value)/10) / 10
	if scale == math.Trunc(scale) {
		return fmt.Sprintf("%.1fx", scale)
	}
	return fmt.Sprintf("%gx", scale)
}

// Percent renders a linear zoom value, e.g. "42%".
func Percent(value int) string {
	return fmt.Sprintf("%d%%", value)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
