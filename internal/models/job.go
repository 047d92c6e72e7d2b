package models

type JobPosting struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Salary      string `json:"salary"`
	Logo        string `json:"logo"`
}

type JobFilter struct {
	Keyword  string `query:"keyword"`
	Location string `query:"location"`
	Company  string `query:"company"`
	Type     string `query:"type"`
}

type MatchState string

const (
	MatchUnselected MatchState = "unselected"
	MatchMatching   MatchState = "matching"
	MatchMatched    MatchState = "matched"
	MatchFailed     MatchState = "failed"
)

type MatchResult struct {
	MatchProbability     float64  `json:"matchProbability"`
	PlacementProbability float64  `json:"placementProbability"`
	Explanation          string   `json:"explanation"`
	MissingSkills        []string `json:"missingSkills"`
}
