package generator

import (
	"fmt"
	"math/rand/v2"
)

// Case identifies one of the generated orderings
type Case int

const (
	Best Case = iota
	Average
	Worst
)

// Cases lists every case in the order they are written
var Cases = []Case{Best, Average, Worst}

func (c Case) String() string {
	switch c {
	case Best:
		return "best"
	case Average:
		return "average"
	case Worst:
		return "worst"
	default:
		return fmt.Sprintf("case(%d)", int(c))
	}
}

// FileName returns the output file name for the case
func (c Case) FileName() string {
	return c.String() + ".in"
}

// Order returns the records of rs arranged for this case.
// Only Average draws from rng.
func (c Case) Order(rs RecordSet, rng *rand.Rand) []Record {
	switch c {
	case Average:
		return rs.Average(rng)
	case Worst:
		return rs.Worst()
	default:
		return rs.Best()
	}
}
