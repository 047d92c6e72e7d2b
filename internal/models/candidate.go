package models

type CandidateStatus string

const (
	StatusNew          CandidateStatus = "New"
	StatusInterviewing CandidateStatus = "Interviewing"
	StatusShortlisted  CandidateStatus = "Shortlisted"
	StatusRejected     CandidateStatus = "Rejected"
)

type CandidateRecord struct {
	ID     int             `json:"id"`
	Name   string          `json:"name"`
	Role   string          `json:"role"`
	Score  int             `json:"score"`
	Status CandidateStatus `json:"status"`
	Branch string          `json:"branch"`
	Skills []string        `json:"skills"`
}

// CandidateDetail is the content of the HR detail overlay.
type CandidateDetail struct {
	CandidateRecord
	ScoreBand          string   `json:"score_band"`
	ResumeSummary      string   `json:"resume_summary"`
	Strengths          []string `json:"strengths"`
	Concern            string   `json:"concern"`
	InterviewQuestions []string `json:"interview_questions"`
}
