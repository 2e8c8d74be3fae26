package claude

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

// Normalizer implements model.Normalizer for Claude Code output.
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

// WithClock replaces time.Now.
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

// Normalize reads the whole stream from r. Claude reports its own run
// duration, cost and per-model usage in the result entry; those are copied
// through. Without a result entry, the record is assembled from the
// transcript and duration_ms is the normalizer's own processing time.
func (n *Normalizer) Normalize(r io.Reader) (model.NormalizedResult, error) {
	start := n.now()

	events, stats, err := parser.ReadEvents(r)
	if err != nil {
		return model.NormalizedResult{}, fmt.Errorf("claude: %w", err)
	}

	result, fromResultEntry := n.aggregate(events)
	if !fromResultEntry || result.DurationMS == 0 {
		if ms := n.now().Sub(start).Milliseconds(); ms > 0 {
			result.DurationMS = ms
		}
	}

	n.log.Debug().
		Int("lines", stats.Lines).
		Int("malformed", stats.Malformed).
		Int("events", stats.Decoded).
		Bool("result_entry", fromResultEntry).
		Msg("normalized claude stream")

	return result, nil
}

func (n *Normalizer) aggregate(events []parser.RawEvent) (model.NormalizedResult, bool) {
	entry, ok := lastResultEntry(events)
	if !ok {
		return model.NormalizedResult{
			Result:    lastAssistantText(events),
			SessionID: firstSessionID(events),
		}, false
	}

	result := model.NormalizedResult{
		Result:     parser.GetString(entry, keyResult),
		ModelUsage: modelUsage(parser.GetMap(entry, keyModelUsage)),
	}
	if id, ok := parser.LookupString(entry, keySessionID); ok {
		result.SessionID = &id
	}
	if cost, ok := parser.LookupFloat(entry, keyTotalCostUSD); ok && cost >= 0 {
		result.TotalCostUSD = &cost
	}
	if ms, ok := parser.LookupInt(entry, keyDurationAPIMS); ok {
		apiMS := int64(ms)
		result.DurationAPIMS = &apiMS
	}
	if ms, ok := parser.LookupInt(entry, keyDurationMS); ok {
		result.DurationMS = int64(ms)
	}
	if turns, ok := parser.LookupInt(entry, keyNumTurns); ok && turns > 0 {
		result.NumTurns = &turns
	}
	if usage := parser.GetMap(entry, keyUsage); usage != nil {
		result.Usage = &model.Usage{
			InputTokens:              parser.GetInt(usage, keyInputTokens),
			OutputTokens:             parser.GetInt(usage, keyOutputTokens),
			CacheReadInputTokens:     parser.GetInt(usage, keyCacheReadInputTokens),
			CacheCreationInputTokens: parser.GetInt(usage, keyCacheCreationInputTokens),
		}
	}

	if result.Result == "" {
		result.Result = lastAssistantText(events)
	}
	if result.SessionID == nil {
		result.SessionID = firstSessionID(events)
	}
	return result, true
}

// lastResultEntry returns the payload of the most recent result entry.
// Fields are read one at a time, so a mistyped field drops only itself.
func lastResultEntry(events []parser.RawEvent) (map[string]any, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if EntryType(events[i].Type) == EntryTypeResult {
			return events[i].Payload, true
		}
	}
	return nil, false
}

// modelUsage converts the per-model breakdown. Entries that are not objects
// are skipped; a nil or empty breakdown yields nil.
func modelUsage(raw map[string]any) map[string]model.ModelUsage {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]model.ModelUsage, len(raw))
	for name := range raw {
		entry := parser.GetMap(raw, name)
		if entry == nil {
			continue
		}
		cost, _ := parser.LookupFloat(entry, keyModelCostUSD)
		out[name] = model.ModelUsage{
			InputTokens:              parser.GetInt(entry, keyModelInputTokens),
			OutputTokens:             parser.GetInt(entry, keyModelOutputTokens),
			CacheReadInputTokens:     parser.GetInt(entry, keyModelCacheReadInputTokens),
			CacheCreationInputTokens: parser.GetInt(entry, keyModelCacheCreationInputTokens),
			CostUSD:                  cost,
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// lastAssistantText returns the last non-empty text block of the most recent
// assistant message that has one.
func lastAssistantText(events []parser.RawEvent) string {
	for i := len(events) - 1; i >= 0; i-- {
		if EntryType(events[i].Type) != EntryTypeAssistant {
			continue
		}
		if text := messageText(parser.GetMap(events[i].Payload, keyMessage)); text != "" {
			return text
		}
	}
	return ""
}

func messageText(message map[string]any) string {
	if text, ok := parser.LookupString(message, keyContent); ok {
		return text
	}
	blocks := parser.GetSlice(message, keyContent)
	for i := len(blocks) - 1; i >= 0; i-- {
		block, ok := blocks[i].(map[string]any)
		if !ok || ContentBlockType(parser.GetString(block, keyType)) != ContentBlockTypeText {
			continue
		}
		if text := parser.GetString(block, keyText); text != "" {
			return text
		}
	}
	return ""
}

func firstSessionID(events []parser.RawEvent) *string {
	for _, event := range events {
		if id := parser.GetString(event.Payload, keySessionID); id != "" {
			return &id
		}
	}
	return nil
}
