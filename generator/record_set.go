package generator

import "math/rand/v2"

// RecordSet is the deterministic, ordered sequence of records for one maxValue.
// Order: label (Labels order), then value ascending, then rank descending.
type RecordSet struct {
	records []Record
}

// BuildRecordSet builds the record set for maxValue
func BuildRecordSet(maxValue float64) RecordSet {
	steps := StepCount(maxValue)
	records := make([]Record, 0, len(Labels)*steps*MaxRank)

	for _, label := range Labels {
		for tenths := 1; tenths <= steps; tenths++ {
			for rank := MaxRank; rank >= 1; rank-- {
				records = append(records, Record{Label: label, Tenths: tenths, Rank: rank})
			}
		}
	}

	return RecordSet{records: records}
}

// Len returns the number of records
func (rs RecordSet) Len() int {
	return len(rs.records)
}

// At returns the i-th record
func (rs RecordSet) At(i int) Record {
	return rs.records[i]
}

// Best returns a copy of the records in set order
func (rs RecordSet) Best() []Record {
	out := make([]Record, len(rs.records))
	copy(out, rs.records)
	return out
}

// Worst returns the records in exactly reverse set order
func (rs RecordSet) Worst() []Record {
	n := len(rs.records)
	out := make([]Record, n)
	for i, r := range rs.records {
		out[n-1-i] = r
	}
	return out
}

// Average returns Len() records drawn uniformly with replacement from the set.
// This is a resample, not a permutation: duplicates and omissions are expected.
func (rs RecordSet) Average(rng *rand.Rand) []Record {
	n := len(rs.records)
	out := make([]Record, n)
	for i := range out {
		out[i] = rs.records[rng.IntN(n)]
	}
	return out
}

// Contains reports whether r is a member of the set
func (rs RecordSet) Contains(r Record) bool {
	steps := len(rs.records) / (len(Labels) * MaxRank)
	if r.Tenths < 1 || r.Tenths > steps || r.Rank < 1 || r.Rank > MaxRank {
		return false
	}
	for _, label := range Labels {
		if label == r.Label {
			return true
		}
	}
	return false
}
