package models

// ConsolidationResult reports what a consolidation pass achieved. It is a
// transient observability value produced fresh on every pass and never
// persisted.
type ConsolidationResult struct {
	// OriginalCount is the number of operations entering the pass.
	OriginalCount int `json:"originalCount"`

	// FinalCount is the number of operations surviving the pass.
	FinalCount int `json:"finalCount"`

	// PerDocumentReduction maps a document id to the number of operations
	// removed for it. Documents with no reduction are omitted.
	PerDocumentReduction map[string]int `json:"perDocumentReduction,omitempty"`
}

// Reduced returns the total number of operations eliminated by the pass.
func (r ConsolidationResult) Reduced() int {
	return r.OriginalCount - r.FinalCount
}
