package generator

import (
	"math"
	"strconv"
)

const (
	// MaxRank is the highest rank; every (label, value) pair gets ranks MaxRank..1
	MaxRank = 10

	// stepTolerance absorbs float error when converting maxValue to tenths
	stepTolerance = 1e-9
)

// Labels is the fixed, ordered label set
var Labels = []string{
	"amarelo",
	"azul",
	"branco",
	"rosa",
	"preto",
	"verde",
	"vermelho",
}

// Record is one (label, value, rank) entry. Value is held in tenths.
type Record struct {
	Label  string
	Tenths int
	Rank   int
}

// Value returns the numeric value of the record
func (r Record) Value() float64 {
	return float64(r.Tenths) / 10
}

// String renders the record the way it appears in a case file
func (r Record) String() string {
	return string(r.AppendText(nil))
}

// AppendText appends "label value rank" to dst
func (r Record) AppendText(dst []byte) []byte {
	dst = append(dst, r.Label...)
	dst = append(dst, ' ')
	dst = appendTenths(dst, r.Tenths)
	dst = append(dst, ' ')
	return strconv.AppendInt(dst, int64(r.Rank), 10)
}

// FormatTenths formats an integer count of tenths with exactly one fractional digit
func FormatTenths(tenths int) string {
	return string(appendTenths(nil, tenths))
}

func appendTenths(dst []byte, tenths int) []byte {
	if tenths < 0 {
		dst = append(dst, '-')
		tenths = -tenths
	}
	dst = strconv.AppendInt(dst, int64(tenths/10), 10)
	dst = append(dst, '.')
	return append(dst, byte('0'+tenths%10))
}

// StepCount returns how many 0.1 steps fit in (0, maxValue].
// NaN, infinite and sub-0.1 values produce no steps.
func StepCount(maxValue float64) int {
	if math.IsNaN(maxValue) || math.IsInf(maxValue, 0) {
		return 0
	}
	steps := math.Floor(maxValue*10 + stepTolerance)
	if steps < 1 {
		return 0
	}
	return int(steps)
}

// RecordCount returns the number of records generated for maxValue
func RecordCount(maxValue float64) int {
	return len(Labels) * StepCount(maxValue) * MaxRank
}
