package meeting

// AnalysisResult is the structured output of the AI analysis capability.
type AnalysisResult struct {
	Summary      string       `json:"summary"`
	KeyDecisions []string     `json:"keyDecisions"`
	Tasks        []ActionItem `json:"tasks"`
}

// ActionItem is a raw extracted task before assignee resolution. Assignee is
// a display name; "Unassigned" or an empty string means nobody was named.
type ActionItem struct {
	Title    string `json:"title"`
	Assignee string `json:"assignee"`
	Deadline string `json:"deadline"`
}
