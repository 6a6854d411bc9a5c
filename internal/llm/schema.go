package llm

// BuildCandidatesJSONSchema returns a JSON-Schema (draft 2020-12 subset) for
// the extraction response envelope, as a generic map. We validate the
// envelope only: per-item problems are handled by normalization, which drops
// bad items instead of failing the whole chunk.
func BuildCandidatesJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"candidates": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object"},
			},
		},
		"required": []string{"candidates"},
	}
}

// BuildSummaryJSONSchema returns the JSON-Schema for the summary response.
// key_decisions is required; themes and unknowns must be string arrays when
// present. A response failing this schema is rejected wholesale.
func BuildSummaryJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"key_decisions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"decision":       map[string]any{"type": "string", "minLength": 1},
						"why_it_matters": map[string]any{"type": "string"},
						"source": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"fileName": map[string]any{"type": "string"},
								"page":     map[string]any{"type": "number"},
							},
						},
					},
					"required": []string{"decision"},
				},
			},
			"themes": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"unknowns": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []string{"key_decisions"},
	}
}
