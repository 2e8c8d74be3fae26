package codex

import (
	"fmt"
	"io"
	"time"

	"agentnorm/internal/model"
	"agentnorm/internal/parser"

	"github.com/rs/zerolog"
)

func init() {
	model.Register(ProviderName, func(log zerolog.Logger) model.Normalizer {
		return New(WithLogger(log))
	})
}

// Normalizer implements model.Normalizer for Codex event streams. It holds no
// state between calls and is safe for concurrent use.
type Normalizer struct {
	log zerolog.Logger
	now func() time.Time
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(n *Normalizer) { n.log = log }
}

// WithClock replaces time.Now. The clock must carry a monotonic reading for
// durations to be immune to wall-clock adjustments.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

// New returns a Normalizer with a no-op logger and the system clock.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Name returns ProviderName.
func (n *Normalizer) Name() string { return ProviderName }

// Normalize reads the whole stream from r and builds the canonical record.
// duration_ms spans from the start of reading to the end of aggregation.
func (n *Normalizer) Normalize(r io.Reader) (model.NormalizedResult, error) {
	start := n.now()

	events, stats, err := parser.ReadEvents(r)
	if err != nil {
		return model.NormalizedResult{}, fmt.Errorf("codex: %w", err)
	}

	result := Aggregate(events)
	result.DurationMS = elapsedMillis(start, n.now())

	n.log.Debug().
		Int("lines", stats.Lines).
		Int("blank", stats.Blank).
		Int("malformed", stats.Malformed).
		Int("events", stats.Decoded).
		Int64("duration_ms", result.DurationMS).
		Msg("normalized codex stream")

	return result, nil
}

// Aggregate builds a NormalizedResult from decoded events. DurationMS is left
// at zero for the caller to fill in.
func Aggregate(events []parser.RawEvent) model.NormalizedResult {
	result := model.NormalizedResult{
		Result:    ExtractResultText(events),
		SessionID: FindSessionID(events),
	}

	turns, usage := SumUsage(events)
	if turns > 0 {
		result.NumTurns = &turns
		result.Usage = &usage
	}
	return result
}

// ExtractResultText returns the text of the most recent item.completed event
// that carries any. Items without usable text are skipped, so an empty tool
// item after the final agent message does not hide it.
func ExtractResultText(events []parser.RawEvent) string {
	for i := len(events) - 1; i >= 0; i-- {
		if EventType(events[i].Type) != EventItemCompleted {
			continue
		}
		item := parser.GetMap(events[i].Payload, keyItem)
		if text := itemText(item); text != "" {
			return text
		}
	}
	return ""
}

// itemText prefers the flat text field and falls back to structured content.
func itemText(item map[string]any) string {
	if text := parser.GetString(item, keyText); text != "" {
		return text
	}
	return firstOutputText(parser.GetSlice(item, keyContent))
}

// firstOutputText scans content blocks in order for the first non-empty
// output_text block.
func firstOutputText(content []any) string {
	for _, raw := range content {
		block, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if parser.GetString(block, keyType) != ContentTypeOutputText {
			continue
		}
		if text := parser.GetString(block, keyText); text != "" {
			return text
		}
	}
	return ""
}

// SumUsage counts turn.completed events and sums their token counters.
// cached_input_tokens maps to CacheReadInputTokens; Codex reports no cache
// creation tokens.
func SumUsage(events []parser.RawEvent) (int, model.Usage) {
	var (
		turns int
		total model.Usage
	)
	for _, event := range events {
		if EventType(event.Type) != EventTurnCompleted {
			continue
		}
		turns++
		usage := parser.GetMap(event.Payload, keyUsage)
		total.Add(model.Usage{
			InputTokens:          parser.GetInt(usage, keyInputTokens),
			OutputTokens:         parser.GetInt(usage, keyOutputTokens),
			CacheReadInputTokens: parser.GetInt(usage, keyCachedInputTokens),
		})
	}
	return turns, total
}

// FindSessionID returns thread_id of the first thread.started event. Later
// thread.started events are ignored, as is a first event whose thread_id is
// missing or not a string.
func FindSessionID(events []parser.RawEvent) *string {
	for _, event := range events {
		if EventType(event.Type) != EventThreadStarted {
			continue
		}
		id, ok := parser.LookupString(event.Payload, keyThreadID)
		if !ok {
			return nil
		}
		return &id
	}
	return nil
}

func elapsedMillis(start, end time.Time) int64 {
	ms := end.Sub(start).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}
