// Package claude normalizes Claude Code `--output-format stream-json` (and
// single-line `json`) output into the canonical result record.
package claude

// ProviderName is the registry name of this adapter.
const ProviderName = "claude"

// EntryType represents the top-level "type" values in Claude Code stream output.
type EntryType string

const (
	EntryTypeSystem    EntryType = "system"
	EntryTypeUser      EntryType = "user"
	EntryTypeAssistant EntryType = "assistant"
	EntryTypeResult    EntryType = "result"
)

// ContentBlockType represents the "type" field in message content blocks.
type ContentBlockType string

const (
	ContentBlockTypeText       ContentBlockType = "text"
	ContentBlockTypeThinking   ContentBlockType = "thinking"
	ContentBlockTypeToolUse    ContentBlockType = "tool_use"
	ContentBlockTypeToolResult ContentBlockType = "tool_result"
)

// Payload keys read from untyped entries.
const (
	keySessionID = "session_id"
	keyMessage   = "message"
	keyContent   = "content"
	keyType      = "type"
	keyText      = "text"

	keyResult        = "result"
	keyNumTurns      = "num_turns"
	keyDurationMS    = "duration_ms"
	keyDurationAPIMS = "duration_api_ms"
	keyTotalCostUSD  = "total_cost_usd"
	keyUsage         = "usage"
	keyModelUsage    = "modelUsage"

	keyInputTokens              = "input_tokens"
	keyOutputTokens             = "output_tokens"
	keyCacheReadInputTokens     = "cache_read_input_tokens"
	keyCacheCreationInputTokens = "cache_creation_input_tokens"
)

// modelUsage keys are camelCase in Claude output.
const (
	keyModelInputTokens              = "inputTokens"
	keyModelOutputTokens             = "outputTokens"
	keyModelCacheReadInputTokens     = "cacheReadInputTokens"
	keyModelCacheCreationInputTokens = "cacheCreationInputTokens"
	keyModelCostUSD                  = "costUSD"
)
