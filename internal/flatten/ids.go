// Package flatten turns the hierarchical fixtures into the flat row/bar
// lists the chart consumes.
package flatten

// IDGen hands out row and bar ids. Both counters start at 1 and are
// independent. One generator is shared by every call that contributes to
// the same chart so ids stay unique across the whole output.
type IDGen struct {
	row int
	bar int
}

// NewIDGen returns a generator whose first row and bar ids are 1.
func NewIDGen() *IDGen {
	return &IDGen{}
}

// NextRow returns the next row id.
func (g *IDGen) NextRow() int {
	g.row++
	return g.row
}

// NextBar returns the next bar id.
func (g *IDGen) NextBar() int {
	g.bar++
	return g.bar
}
