// Package catalog holds the fixed, read-only data sets the dashboards render.
package catalog

import "alfredoptarigan/placement-copilot/internal/models"

var Branches = []string{"All", "Engineering", "Design", "Marketing", "Data"}

var candidates = []models.CandidateRecord{
	{ID: 1, Name: "Alex Rivera", Role: "Senior Software Engineer", Score: 88, Status: models.StatusInterviewing, Branch: "Engineering", Skills: []string{"React", "TypeScript", "Node.js"}},
	{ID: 2, Name: "Sarah Chen", Role: "Product Designer", Score: 94, Status: models.StatusNew, Branch: "Design", Skills: []string{"Figma", "UX Research", "Prototyping"}},
	{ID: 3, Name: "Marcus Johnson", Role: "DevOps Engineer", Score: 76, Status: models.StatusRejected, Branch: "Engineering", Skills: []string{"AWS", "Docker", "Kubernetes"}},
	{ID: 4, Name: "Elena Rodriguez", Role: "Marketing Manager", Score: 82, Status: models.StatusShortlisted, Branch: "Marketing", Skills: []string{"SEO", "Content Strategy", "Analytics"}},
	{ID: 5, Name: "David Kim", Role: "Data Scientist", Score: 91, Status: models.StatusNew, Branch: "Data", Skills: []string{"Python", "PyTorch", "SQL"}},
	{ID: 6, Name: "Jessica Taylor", Role: "Frontend Developer", Score: 85, Status: models.StatusInterviewing, Branch: "Engineering", Skills: []string{"Vue", "Tailwind", "JavaScript"}},
}

// Candidates returns a copy of the mock candidate list.
func Candidates() []models.CandidateRecord {
	out := make([]models.CandidateRecord, len(candidates))
	copy(out, candidates)
	return out
}

// Mock narrative shown in every candidate detail overlay.
const (
	ResumeSummary = "Results-oriented Senior Software Engineer with over 6 years of experience in building scalable web applications. " +
		"Expertise in React, Node.js, and cloud architecture. Proven track record of leading cross-functional teams " +
		"to deliver high-impact products in the fintech space."
	Concern = "Limited public contribution to open-source projects."
)

var Strengths = []string{
	"Strong technical leadership in complex migrations.",
	"Quantifiable impact on business metrics (latency, transaction volume).",
	"Deep expertise in modern frontend and backend stacks.",
}

var InterviewQuestions = []string{
	"Can you elaborate on the specific challenges faced during the microservices migration?",
	"How do you approach mentoring junior developers in a high-pressure environment?",
	"Describe a time when you had to make a difficult trade-off between performance and speed of delivery.",
}
