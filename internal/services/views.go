package services

import (
	"fmt"
	"math"

	"alfredoptarigan/placement-copilot/internal/models"
)

const competencyFullMark = 100

type Competency struct {
	Subject  string  `json:"subject"`
	Score    float64 `json:"score"`
	FullMark int     `json:"full_mark"`
}

type ScoreCard struct {
	Label   string  `json:"label"`
	Score   float64 `json:"score"`
	Display string  `json:"display"`
}

// DashboardView is derived from an AnalysisResult and nothing else.
type DashboardView struct {
	Name              string                    `json:"name"`
	Email             string                    `json:"email"`
	FitGauge          string                    `json:"fit_gauge"`
	Authenticity      ScoreCard                 `json:"authenticity"`
	Impact            ScoreCard                 `json:"impact"`
	Competencies      []Competency              `json:"competencies"`
	Skills            []string                  `json:"skills"`
	Summary           string                    `json:"summary"`
	Feedback          string                    `json:"authenticity_feedback,omitempty"`
	SuggestedRoles    []string                  `json:"suggested_roles"`
	LearningResources []models.LearningResource `json:"learning_resources"`
	CanMatchJobs      bool                      `json:"can_match_jobs"`
}

func BuildDashboard(result *models.AnalysisResult) *DashboardView {
	if result == nil {
		return nil
	}
	s := result.Scores

	view := &DashboardView{
		Name:         result.Name,
		Email:        result.Email,
		FitGauge:     Percent(s.Fit),
		Authenticity: ScoreCard{Label: "Authenticity", Score: s.Authenticity, Display: Percent(s.Authenticity)},
		Impact:       ScoreCard{Label: "Impact Score", Score: s.Impact, Display: Percent(s.Impact)},
		Competencies: []Competency{
			{Subject: "Fit", Score: s.Fit, FullMark: competencyFullMark},
			{Subject: "Authenticity", Score: s.Authenticity, FullMark: competencyFullMark},
			{Subject: "Clarity", Score: s.Clarity, FullMark: competencyFullMark},
			{Subject: "Impact", Score: s.Impact, FullMark: competencyFullMark},
			{Subject: "Relevance", Score: s.Relevance, FullMark: competencyFullMark},
		},
		Skills:            nonNil(result.Skills),
		Summary:           result.Summary,
		Feedback:          result.AuthenticityFeedback,
		SuggestedRoles:    nonNil(result.SuggestedRoles),
		LearningResources: append([]models.LearningResource{}, result.LearningResources...),
		CanMatchJobs:      result.RawText != "",
	}
	return view
}

// Percent renders a 0-100 score the way the gauges show it, e.g. "88%".
func Percent(score float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(clampScore(score))))
}
