// Package model defines the canonical result record shared by every provider
// adapter, and the registry that maps provider names to normalizers.
package model

// NormalizedResult is the provider-agnostic record emitted once per agent run.
// Fields a provider cannot populate are serialized as null, never omitted.
type NormalizedResult struct {
	Result        string                `json:"result"`
	TotalCostUSD  *float64              `json:"total_cost_usd"`
	DurationMS    int64                 `json:"duration_ms"`
	DurationAPIMS *int64                `json:"duration_api_ms"`
	NumTurns      *int                  `json:"num_turns"`
	SessionID     *string               `json:"session_id"`
	Usage         *Usage                `json:"usage"`
	ModelUsage    map[string]ModelUsage `json:"modelUsage"`
}

// Usage holds token counters summed across every turn of a run.
type Usage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
}

// ModelUsage is a per-model breakdown, populated only by providers that report one.
type ModelUsage struct {
	InputTokens              int     `json:"inputTokens"`
	OutputTokens             int     `json:"outputTokens"`
	CacheReadInputTokens     int     `json:"cacheReadInputTokens"`
	CacheCreationInputTokens int     `json:"cacheCreationInputTokens"`
	CostUSD                  float64 `json:"costUSD"`
}

// TotalTokens returns input plus output tokens, or 0 for a nil Usage.
func (u *Usage) TotalTokens() int {
	if u == nil {
		return 0
	}
	return u.InputTokens + u.OutputTokens
}

// Add accumulates other into u.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.CacheReadInputTokens += other.CacheReadInputTokens
	u.CacheCreationInputTokens += other.CacheCreationInputTokens
}
