package parse

import (
	"math"
	"strings"
	"testing"
)

// FuzzParseLine fuzzes ParseLine with arbitrary lines.
func FuzzParseLine(f *testing.F) {
	seeds := []string{
		`"2020-01-01 10:00:00",80.5,`,
		`"2020-01-01 10:00:00",80,5,`,
		`"2020-01-01 10:00:00",,`,
		`Date,Weight,Comment`,
		``,
		`,`,
		`"`,
		`"2020-02-30 10:00:00",80,`,
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, line string) {
		record, issue, kept := ParseLine(line)
		if !kept {
			if issue == nil || !issue.Dropped || issue.Reason != ReasonTimestamp {
				t.Fatalf("dropped line without timestamp issue: %q", line)
			}
			return
		}
		if math.IsNaN(record.Weight) || math.IsInf(record.Weight, 0) {
			t.Fatalf("kept record with non-finite weight: %q", line)
		}
		if issue != nil && issue.Reason == ReasonWeight && record.Weight != 0 {
			t.Fatalf("weight failure must leave weight at 0: %q", line)
		}
		if !strings.Contains(line, ",") {
			t.Fatalf("kept a line without separator: %q", line)
		}
	})
}
