package generator

import (
	"io"
	"testing"
)

func BenchmarkBuildRecordSet(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		BuildRecordSet(100)
	}
}

func BenchmarkWriteCase(b *testing.B) {
	rs := BuildRecordSet(100)
	records := rs.Worst()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := WriteCase(io.Discard, records, 4); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAverage(b *testing.B) {
	rs := BuildRecordSet(100)
	rng := newTestRand(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rs.Average(rng)
	}
}
