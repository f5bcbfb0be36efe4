package response

type CheckPromptSimilarityOutput struct {
	StatusCode       int     `json:"status_code"`
	LLMResponse      string  `json:"llm_response"`
	SimilarityScore  float64 `json:"similarity_score"`
	IsSimilar        bool    `json:"is_similar"`
	SanitizedPrompt1 string  `json:"sanitized_prompt1"`
	SanitizedPrompt2 string  `json:"sanitized_prompt2"`
}
