// Package indicator computes technical indicator columns over candle series.
//
// Every column carries an explicit warm-up prefix: the first entries of a
// windowed indicator are undefined until enough history exists, and callers
// must check Defined before reading a value. Indicator values at index i
// depend only on candles at index <= i.
package indicator

// Column is an indicator series aligned with its candle series. Entries
// before the first defined index hold no meaningful value.
type Column struct {
	values []float64
	first  int
}

// NewColumn builds a column whose entries are defined from index first on.
func NewColumn(values []float64, first int) Column {
	if first < 0 {
		first = 0
	}
	if first > len(values) {
		first = len(values)
	}
	return Column{values: values, first: first}
}

// Undefined returns an all-undefined column of length n.
func Undefined(n int) Column {
	return Column{values: make([]float64, n), first: n}
}

// Len returns the column length.
func (c Column) Len() int { return len(c.values) }

// FirstDefined returns the index of the first defined entry, or Len() when
// the column is entirely undefined.
func (c Column) FirstDefined() int { return c.first }

// Defined reports whether the entry at index i holds a value.
func (c Column) Defined(i int) bool { return i >= c.first && i < len(c.values) }

// At returns the value at index i and whether it is defined.
func (c Column) At(i int) (float64, bool) {
	if !c.Defined(i) {
		return 0, false
	}
	return c.values[i], true
}

// Last returns the most recent value and whether it is defined.
func (c Column) Last() (float64, bool) {
	return c.At(len(c.values) - 1)
}
