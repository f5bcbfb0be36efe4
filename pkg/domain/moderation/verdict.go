package moderation

// Verdict is the risk assessment for a single piece of text. TotalRisk is
// the weighted sum over category scores and may exceed 1.0 when the
// configured weights sum above 1.
type Verdict struct {
	TotalRisk     float64    `json:"total_risk"`
	CategoryRisks RiskVector `json:"category_risks"`
}
