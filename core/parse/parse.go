// Package parse turns raw weight log lines into records.
package parse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/huangsam/weightplot/schema"
)

// Failure reasons attached to parse issues.
const (
	ReasonTimestamp = "could not parse: timestamp"
	ReasonWeight    = "could not parse: weight float"
	ReasonRead      = "could not read line"
)

// separator delimits the fields of a line.
const separator = ","

// maxConsecutiveReadErrors ends a pass over a source that keeps failing.
const maxConsecutiveReadErrors = 8

// WarmupLines is the number of leading lines that never produce a diagnostic.
// It keeps header or metadata rows quiet.
const WarmupLines = 3

// Reporter receives diagnostics while a file is parsed.
type Reporter func(issue *schema.ParseIssue)

// Parser reads weight logs and keeps counters about what it saw.
type Parser struct {
	report Reporter
	stats  schema.ParseStats
}

// NewParser creates a parser. A nil reporter discards diagnostics.
func NewParser(report Reporter) *Parser {
	return &Parser{report: report}
}

// Stats returns the counters collected so far.
func (p *Parser) Stats() schema.ParseStats {
	return p.stats
}

// Records returns a single-pass sequence of the records in r.
// Lines whose timestamp cannot be parsed are dropped. A failed read is reported and
// skipped; only a source that keeps failing ends the pass early.
func (p *Parser) Records(r io.Reader) iter.Seq[schema.Record] {
	return func(yield func(schema.Record) bool) {
		br := bufio.NewReader(r)
		index := 0
		failures := 0
		for {
			line, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				// The failed line is skipped without advancing the line index.
				p.stats.ReadErrors++
				p.emit(&schema.ParseIssue{Index: index, Line: trimLineEnding(line), Reason: fmt.Sprintf("%s: %v", ReasonRead, err), Dropped: true})
				failures++
				if failures >= maxConsecutiveReadErrors {
					return
				}
				continue
			}
			failures = 0
			eof := err != nil
			if eof && line == "" {
				return
			}
			line = trimLineEnding(line)

			// Invalid text is skipped without advancing the line index.
			if !utf8.ValidString(line) {
				p.stats.ReadErrors++
				p.emit(&schema.ParseIssue{Index: index, Line: line, Reason: ReasonRead + ": invalid UTF-8", Dropped: true})
				if eof {
					return
				}
				continue
			}

			p.stats.LinesRead++
			record, issue, ok := ParseLine(line)
			if issue != nil {
				issue.Index = index
				if issue.Dropped {
					p.stats.TimestampFailures++
				} else {
					p.stats.WeightFailures++
				}
				if index >= WarmupLines {
					p.emit(issue)
				}
			}
			index++

			if ok {
				p.stats.RecordsKept++
				if !yield(record) {
					return
				}
			}
			if eof {
				return
			}
		}
	}
}

// emit forwards an issue to the reporter if one is set.
func (p *Parser) emit(issue *schema.ParseIssue) {
	if p.report != nil {
		p.report(issue)
	}
}

// ParseLine parses one line of the form `"YYYY-MM-DD HH:MM:SS",<weight>,...`.
// The record is kept unless the timestamp fails. A weight failure keeps the
// record with weight 0 and still returns an issue describing it.
func ParseLine(line string) (schema.Record, *schema.ParseIssue, bool) {
	var record schema.Record

	ts, next, ok := parseTimestamp(line)
	if !ok {
		return record, &schema.ParseIssue{Line: line, Reason: ReasonTimestamp, Dropped: true}, false
	}
	record.Timestamp = ts

	weight, ok := parseWeight(line, next)
	if !ok {
		return record, &schema.ParseIssue{Line: line, Reason: ReasonWeight}, true
	}
	record.Weight = weight
	return record, nil, true
}

// parseTimestamp skips the leading quote, reads up to the first separator and drops
// the closing quote. It returns the byte offset of that separator in line.
func parseTimestamp(line string) (time.Time, int, bool) {
	if line == "" {
		return time.Time{}, 0, false
	}
	_, skip := utf8.DecodeRuneInString(line)
	rest := line[skip:]

	idx := strings.Index(rest, separator)
	if idx <= 0 {
		return time.Time{}, 0, false
	}
	field := rest[:idx-1]
	// time.Parse accepts fractional seconds the layout does not mention
	if len(field) != len(schema.TimestampLayout) {
		return time.Time{}, 0, false
	}
	ts, err := time.Parse(schema.TimestampLayout, field)
	if err != nil {
		return time.Time{}, 0, false
	}
	return ts, skip + idx, true
}

// parseWeight reads the field after the separator at sepIndex, up to the next separator.
// Since the field ends at the next comma, a decimal comma truncates the value ("80,5" reads as 80).
func parseWeight(line string, sepIndex int) (float64, bool) {
	rest := line[sepIndex+len(separator):]
	idx := strings.Index(rest, separator)
	if idx <= 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(rest[:idx], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// trimLineEnding removes a trailing "\n" or "\r\n".
func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// SortRecords orders records by timestamp. Equal timestamps keep their input order.
func SortRecords(records []schema.Record) {
	slices.SortStableFunc(records, func(a, b schema.Record) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
}

// ReadAll parses every record from r and returns them sorted.
func (p *Parser) ReadAll(r io.Reader) []schema.Record {
	records := slices.Collect(p.Records(r))
	SortRecords(records)
	return records
}
