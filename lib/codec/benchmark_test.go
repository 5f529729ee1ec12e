package codec

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/jKV/lib/db"
	"github.com/ValentinKolb/jKV/lib/value"
)

// benchmarkSnapshot returns a snapshot with n records and one index
func benchmarkSnapshot(n int) *db.Snapshot {
	snap := db.NewSnapshot()
	cities := []string{"Paris", "Berlin", "Rome", "Madrid"}
	byCity := map[string][]string{}
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%d", i)
		city := cities[i%len(cities)]
		snap.Data[key] = value.Record{
			"name":  value.String(fmt.Sprintf("user %d", i)),
			"age":   value.Int(int64(i % 90)),
			"city":  value.String(city),
			"score": value.Float(float64(i) / 3),
			"tags":  value.Array(value.String("a"), value.String("b")),
		}
		byCity[city] = append(byCity[city], key)
	}
	snap.Indexes["city"] = byCity
	snap.IndexDefs["city"] = db.IndexDef{Type: db.IndexTypeDefault}
	return snap
}

func BenchmarkEncode(b *testing.B) {
	snap := benchmarkSnapshot(1000)
	for _, name := range Names() {
		c, _ := ByName(name)
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			var size int
			for i := 0; i < b.N; i++ {
				data, err := c.Encode(snap)
				if err != nil {
					b.Fatal(err)
				}
				size = len(data)
			}
			b.ReportMetric(float64(size), "bytes")
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	snap := benchmarkSnapshot(1000)
	for _, name := range Names() {
		c, _ := ByName(name)
		data, err := c.Encode(snap)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := c.Decode(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
