// Package codex normalizes the JSONL event stream written by `codex exec --json`
// into the canonical result record.
package codex

// ProviderName is the registry name of this adapter.
const ProviderName = "codex"

// EventType represents the top-level "type" values emitted by the Codex CLI.
// The set is open: unknown values are tolerated and ignored.
type EventType string

const (
	EventThreadStarted   EventType = "thread.started"
	EventThreadCompleted EventType = "thread.completed"
	EventTurnStarted     EventType = "turn.started"
	EventTurnCompleted   EventType = "turn.completed"
	EventTurnFailed      EventType = "turn.failed"
	EventItemStarted     EventType = "item.started"
	EventItemUpdated     EventType = "item.updated"
	EventItemCompleted   EventType = "item.completed"
	EventError           EventType = "error"
)

// ItemType captures "item.type" values. Result extraction does not match on
// them; it relies on the presence of text.
type ItemType string

const (
	ItemTypeAgentMessage     ItemType = "agent_message"
	ItemTypeReasoning        ItemType = "reasoning"
	ItemTypeCommandExecution ItemType = "command_execution"
	ItemTypeFileChange       ItemType = "file_change"
	ItemTypeMCPToolCall      ItemType = "mcp_tool_call"
	ItemTypeWebSearch        ItemType = "web_search"
)

// ContentTypeOutputText marks a structured content block carrying model text.
const ContentTypeOutputText = "output_text"

// Payload keys read by the normalizer.
const (
	keyThreadID          = "thread_id"
	keyItem              = "item"
	keyText              = "text"
	keyContent           = "content"
	keyType              = "type"
	keyUsage             = "usage"
	keyInputTokens       = "input_tokens"
	keyOutputTokens      = "output_tokens"
	keyCachedInputTokens = "cached_input_tokens"
)
