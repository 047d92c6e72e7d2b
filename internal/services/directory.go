package services

import (
	"errors"
	"strings"

	"alfredoptarigan/placement-copilot/internal/catalog"
	"alfredoptarigan/placement-copilot/internal/models"
)

var ErrCandidateNotFound = errors.New("candidate not found")

const allBranches = "All"

// FilterCandidates keeps the records whose name or role contains query and
// whose branch equals branch. An empty branch or "All" matches any branch.
func FilterCandidates(records []models.CandidateRecord, query, branch string) []models.CandidateRecord {
	q := normalizeQuery(query)
	branch = strings.TrimSpace(branch)

	out := make([]models.CandidateRecord, 0, len(records))
	for _, c := range records {
		if q != "" && !containsFold(c.Name, q) && !containsFold(c.Role, q) {
			continue
		}
		if branch != "" && branch != allBranches && !strings.EqualFold(c.Branch, branch) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// CandidateDetail builds the detail overlay for one record of the catalog.
func CandidateDetail(id int) (*models.CandidateDetail, error) {
	for _, c := range catalog.Candidates() {
		if c.ID != id {
			continue
		}
		return &models.CandidateDetail{
			CandidateRecord:    c,
			ScoreBand:          ScoreBand(c.Score),
			ResumeSummary:      catalog.ResumeSummary,
			Strengths:          append([]string{}, catalog.Strengths...),
			Concern:            catalog.Concern,
			InterviewQuestions: append([]string{}, catalog.InterviewQuestions...),
		}, nil
	}
	return nil, ErrCandidateNotFound
}

func ScoreBand(score int) string {
	switch {
	case score > 85:
		return "high"
	case score > 70:
		return "medium"
	default:
		return "low"
	}
}
