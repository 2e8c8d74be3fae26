package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"agentnorm/internal/model"
	"agentnorm/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// runLine is one JSONL record in batch output: the contract fields plus the
// file and provider they came from.
type runLine struct {
	Path     string `json:"path"`
	Provider string `json:"provider"`
	model.NormalizedResult
}

// WriteRuns writes batch results to w. summaryWidth bounds the result column
// in table and plain output.
func WriteRuns(w io.Writer, runs []store.Run, includeHeader bool, format string, summaryWidth int) error {
	switch strings.ToLower(format) {
	case "", FormatJSONL, FormatJSON:
		return writeRunsJSONL(w, runs)
	case FormatTable:
		return writeRunsTable(w, runs, includeHeader, summaryWidth)
	case FormatPlain:
		return writeRunsPlain(w, runs, includeHeader, summaryWidth)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeRunsJSONL(w io.Writer, runs []store.Run) error {
	for _, run := range runs {
		data, err := marshalCompact(runLine{Path: run.Path, Provider: run.Provider, NormalizedResult: run.Result})
		if err != nil {
			return fmt.Errorf("encode %s: %w", run.Path, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return err
		}
	}
	return nil
}

func writeRunsPlain(w io.Writer, runs []store.Run, includeHeader bool, summaryWidth int) error {
	if includeHeader {
		if _, err := fmt.Fprintln(w, "path\tprovider\tsession_id\tnum_turns\tinput_tokens\toutput_tokens\tduration_ms\tresult"); err != nil {
			return err
		}
	}

	for _, run := range runs {
		in, out := tokenCells(run.Result.Usage)
		line := fmt.Sprintf(
			"%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s",
			run.Path,
			run.Provider,
			stringOrDash(run.Result.SessionID),
			intOrDash(run.Result.NumTurns),
			in,
			out,
			run.Result.DurationMS,
			Preview(run.Result.Result, summaryWidth),
		)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeRunsTable(w io.Writer, runs []store.Run, includeHeader bool, summaryWidth int) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = true
	tw.Style().Options.SeparateHeader = true
	tw.Style().Options.DrawBorder = true

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 7, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
	})

	if includeHeader {
		tw.AppendHeader(table.Row{"Path", "Provider", "Session ID", "Turns", "Tokens In", "Tokens Out", "Result"})
	}

	for _, run := range runs {
		in, out := tokenCells(run.Result.Usage)
		tw.AppendRow(table.Row{
			run.Path,
			run.Provider,
			stringOrDash(run.Result.SessionID),
			intOrDash(run.Result.NumTurns),
			in,
			out,
			Preview(run.Result.Result, summaryWidth),
		})
	}

	if len(runs) == 0 {
		tw.AppendRow(table.Row{"-", "-", "(no runs)", "-", "-", "-", "-"})
	}

	_ = tw.Render()
	return nil
}

// tokenCells renders input and output token counts, or dashes when the
// provider reported no usage.
func tokenCells(usage *model.Usage) (string, string) {
	if usage == nil {
		return "-", "-"
	}
	return strconv.Itoa(usage.InputTokens), strconv.Itoa(usage.OutputTokens)
}
