package request

type CheckPromptSimilarityRequest struct {
	Prompt1          string `json:"prompt1"`
	Prompt2          string `json:"prompt2"`
	SimilarityMethod string `json:"similarity_method"`
	LLMModel         string `json:"llm_model,omitempty"`
}
