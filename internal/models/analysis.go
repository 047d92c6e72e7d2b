package models

type AnalysisState string

const (
	AnalysisIdle       AnalysisState = "idle-empty"
	AnalysisReady      AnalysisState = "input-ready"
	AnalysisSubmitting AnalysisState = "submitting"
	AnalysisSuccess    AnalysisState = "success"
	AnalysisError      AnalysisState = "error"
)

// ResumeFile is an uploaded file in transportable form.
type ResumeFile struct {
	Name      string
	MediaType string
	Size      int64
	Data      []byte
}

// AnalysisRequest carries either Text or File, never both.
type AnalysisRequest struct {
	Text string
	File *ResumeFile
}

type Scores struct {
	Fit          float64 `json:"fit"`
	Authenticity float64 `json:"authenticity"`
	Clarity      float64 `json:"clarity"`
	Impact       float64 `json:"impact"`
	Relevance    float64 `json:"relevance"`
}

type LearningResource struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Platform string `json:"platform"`
}

type AnalysisResult struct {
	Name                 string             `json:"name"`
	Email                string             `json:"email"`
	Skills               []string           `json:"skills"`
	Summary              string             `json:"summary"`
	Scores               Scores             `json:"scores"`
	AuthenticityFeedback string             `json:"authenticity_feedback,omitempty"`
	SuggestedRoles       []string           `json:"suggested_roles,omitempty"`
	LearningResources    []LearningResource `json:"learning_resources,omitempty"`
	RawText              string             `json:"raw_text"`
}

// AnalysisResponse mirrors the JSON schema declared to the model. Pointer
// score fields distinguish an absent score from a zero.
type AnalysisResponse struct {
	Scores *struct {
		Fit          *float64 `json:"fit"`
		Authenticity *float64 `json:"authenticity"`
		Clarity      *float64 `json:"clarity"`
		Impact       *float64 `json:"impact"`
		Relevance    *float64 `json:"relevance"`
	} `json:"scores"`
	Summary              string             `json:"summary"`
	Skills               []string           `json:"skills"`
	AuthenticityFeedback string             `json:"authenticityFeedback"`
	SuggestedRoles       []string           `json:"suggestedRoles"`
	LearningResources    []LearningResource `json:"learningResources"`
	ExtractedText        string             `json:"extractedText"`
}
