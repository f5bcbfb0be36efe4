package moderation

// Action is the outcome tag of a moderation pass.
type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// Rejection carries the reject payload. Category is empty when the global
// threshold tripped rather than a single category.
type Rejection struct {
	Reason    string     `json:"message"`
	Category  Category   `json:"category,omitempty"`
	RiskScore float64    `json:"risk_score"`
	Breakdown RiskVector `json:"risk_breakdown"`
}

// Result is the tagged outcome of ModerateInput/ModerateOutput. The
// sanitized text and the rejection payload are only reachable through the
// ok-returning accessors, so callers must branch on the tag before use.
type Result struct {
	action    Action
	sanitized string
	rejection *Rejection
}

func Accept(sanitized string) Result {
	return Result{action: ActionAccept, sanitized: sanitized}
}

func Reject(reason string, category Category, riskScore float64, breakdown RiskVector) Result {
	return Result{
		action: ActionReject,
		rejection: &Rejection{
			Reason:    reason,
			Category:  category,
			RiskScore: riskScore,
			Breakdown: breakdown,
		},
	}
}

func (r Result) Action() Action { return r.action }

func (r Result) Accepted() bool { return r.action == ActionAccept }

// SanitizedText returns the sanitized text and true when the result is an
// acceptance; rejected results never expose a sanitized candidate.
func (r Result) SanitizedText() (string, bool) {
	if r.action != ActionAccept {
		return "", false
	}
	return r.sanitized, true
}

func (r Result) Rejection() (Rejection, bool) {
	if r.rejection == nil {
		return Rejection{}, false
	}
	return *r.rejection, true
}
