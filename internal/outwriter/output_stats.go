package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/weightplot/internal/contract"
	"github.com/huangsam/weightplot/internal/parquet"
	"github.com/huangsam/weightplot/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// statsReport is the JSON document written by the stats command.
type statsReport struct {
	Input  string                 `json:"input"`
	Parse  schema.ParseStats      `json:"parse"`
	Series []schema.SeriesSummary `json:"series"`
}

// WriteSummaries outputs the series summaries, dispatching based on the output format configured.
func WriteSummaries(w io.Writer, summaries []schema.SeriesSummary, parse schema.ParseStats, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, statsReport{Input: cfg.InputPath, Parse: parse, Series: summaries})
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeSummariesCSV(w, summaries, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteSummaries(w, parquet.ConvertSummaries(summaries))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(w, cfg.OutputFile, func(w io.Writer) error {
			return writeSummariesTable(w, summaries, parse, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// writeSummariesTable generates and writes the human-readable table.
func writeSummariesTable(w io.Writer, summaries []schema.SeriesSummary, parse schema.ParseStats, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Series", "From", "To", "Count", "Min", "Max", "Mean", "Trend", "Delta", "Direction"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		data = append(data, []string{
			s.Series,
			s.From.Format(schema.DateLayout),
			s.To.Format(schema.DateLayout),
			fmt.Sprintf(intFmt, s.Count),
			fmtFloat(s.Min),
			fmtFloat(s.Max),
			fmtFloat(s.Mean),
			fmtFloat(s.TrendEnd),
			fmtFloat(s.TrendDelta),
			contract.GetColorLabel(s.Direction),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Parsed %d lines: %d records kept, %d bad timestamps, %d bad weights, %d read errors\n",
		parse.LinesRead, parse.RecordsKept, parse.TimestampFailures, parse.WeightFailures, parse.ReadErrors); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Summarized %d series from %s in %v. Trend window: %d\n",
		len(summaries), contract.TruncatePath(cfg.InputPath, GetMaxTablePathWidth(cfg)), duration, cfg.Window)
	return err
}

// writeSummariesCSV writes the summaries in CSV format.
func writeSummariesCSV(w io.Writer, summaries []schema.SeriesSummary, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"series",
		"kind",
		"from",
		"to",
		"count",
		"min",
		"max",
		"mean",
		"trend_start",
		"trend_end",
		"trend_delta",
		"direction",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range summaries {
			row := []string{
				s.Series,
				string(s.Kind),
				s.From.Format(schema.TimestampLayout),
				s.To.Format(schema.TimestampLayout),
				fmt.Sprintf(intFmt, s.Count),
				fmtFloat(s.Min),
				fmtFloat(s.Max),
				fmtFloat(s.Mean),
				fmtFloat(s.TrendStart),
				fmtFloat(s.TrendEnd),
				fmtFloat(s.TrendDelta),
				string(s.Direction),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
