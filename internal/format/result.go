// Package format provides rendering functions for normalized results.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"agentnorm/internal/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Output formats accepted by WriteResult and WriteRuns.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatTable = "table"
	FormatPlain = "plain"
)

// MarshalResult encodes result as the single-object harness contract. HTML
// characters are left unescaped and no trailing newline is added.
func MarshalResult(result model.NormalizedResult) ([]byte, error) {
	return marshalCompact(result)
}

// WriteResult writes one result to w in the requested format. width bounds
// the result preview in table and plain output; 0 means unbounded. A single
// result in jsonl is the same compact object as json.
func WriteResult(w io.Writer, result model.NormalizedResult, format string, width int) error {
	switch strings.ToLower(format) {
	case "", FormatJSON, FormatJSONL:
		data, err := MarshalResult(result)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		return nil
	case FormatTable:
		return writeResultTable(w, result, width)
	case FormatPlain:
		return writeResultPlain(w, result, width)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func resultFields(result model.NormalizedResult) [][2]string {
	counters := [5]string{"-", "-", "-", "-", "-"}
	if u := result.Usage; u != nil {
		counters = [5]string{
			strconv.Itoa(u.InputTokens),
			strconv.Itoa(u.OutputTokens),
			strconv.Itoa(u.CacheReadInputTokens),
			strconv.Itoa(u.CacheCreationInputTokens),
			strconv.Itoa(u.TotalTokens()),
		}
	}
	return [][2]string{
		{"session_id", stringOrDash(result.SessionID)},
		{"num_turns", intOrDash(result.NumTurns)},
		{"duration_ms", strconv.FormatInt(result.DurationMS, 10)},
		{"duration_api_ms", int64OrDash(result.DurationAPIMS)},
		{"total_cost_usd", costOrDash(result.TotalCostUSD)},
		{"input_tokens", counters[0]},
		{"output_tokens", counters[1]},
		{"cache_read_input_tokens", counters[2]},
		{"cache_creation_input_tokens", counters[3]},
		{"total_tokens", counters[4]},
		{"models", strconv.Itoa(len(result.ModelUsage))},
	}
}

func writeResultPlain(w io.Writer, result model.NormalizedResult, width int) error {
	for _, kv := range resultFields(result) {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", kv[0], kv[1]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "result\t%s\n", Preview(result.Result, width))
	return err
}

func writeResultTable(w io.Writer, result model.NormalizedResult, width int) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Options.SeparateRows = false
	tw.Style().Options.DrawBorder = true

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: previewWidth(width)},
	})
	tw.AppendHeader(table.Row{"Field", "Value"})

	for _, kv := range resultFields(result) {
		tw.AppendRow(table.Row{kv[0], kv[1]})
	}
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"result", Preview(result.Result, 0)})

	_ = tw.Render()
	return nil
}

func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func stringOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func intOrDash(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func int64OrDash(n *int64) string {
	if n == nil {
		return "-"
	}
	return strconv.FormatInt(*n, 10)
}

func costOrDash(c *float64) string {
	if c == nil {
		return "-"
	}
	return strconv.FormatFloat(*c, 'f', 4, 64)
}
