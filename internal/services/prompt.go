package services

import (
	"fmt"

	"google.golang.org/genai"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

const analysisInstructions = `Perform the following:
1. Skill Detection: Identify all technical and soft skills.
2. Authenticity Check: Identify generic phrases, buzzwords, or AI-generated patterns.
3. Job Role Suggestions: Suggest 3-5 job roles that fit this profile.
4. Learning Resources: For identified skill gaps or suggested roles, provide 3-5 free learning resource links (e.g., Coursera, YouTube, MDN).
5. Scoring: Provide scores (0-100) for Fit, Authenticity, Clarity, Impact, and Relevance.
6. Extraction: Extract the full text as 'extractedText'.`

// BuildTextAnalysisPrompt creates the prompt for pasted résumé text.
func (pb *PromptBuilder) BuildTextAnalysisPrompt(resumeText string) string {
	return fmt.Sprintf(`Analyze the following resume text.
%s

Resume Text:
%s`, analysisInstructions, resumeText)
}

// BuildFileAnalysisPrompt creates the prompt that accompanies an inline file.
func (pb *PromptBuilder) BuildFileAnalysisPrompt() string {
	return "Analyze this resume file.\n" + analysisInstructions
}

// BuildJobMatchPrompt creates the prompt comparing a résumé to a posting.
func (pb *PromptBuilder) BuildJobMatchPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`Compare the following resume against the job description.
Perform the following:
1. Fit Score Calculation: Calculate a score (0-100) based on matched skills vs required skills.
2. Skill Gap Detection: List specific missing skills or certifications.
3. Placement Probability: Calculate a weighted probability (0-100) of being hired, considering experience level, skill match, and clarity of the resume.
4. Explanation: Provide a brief justification for the scores.

Resume:
%s

Job Description:
%s`, resumeText, jobDescription)
}

func stringArraySchema() *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
}

// analysisSchema is the response contract declared to the model for résumé
// analysis.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"scores": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"fit":          {Type: genai.TypeNumber},
				"authenticity": {Type: genai.TypeNumber},
				"clarity":      {Type: genai.TypeNumber},
				"impact":       {Type: genai.TypeNumber},
				"relevance":    {Type: genai.TypeNumber},
			},
			Required: []string{"fit", "authenticity", "clarity", "impact", "relevance"},
		},
		"summary":              {Type: genai.TypeString},
		"skills":               stringArraySchema(),
		"authenticityFeedback": {Type: genai.TypeString},
		"suggestedRoles":       stringArraySchema(),
		"learningResources": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":    {Type: genai.TypeString},
					"url":      {Type: genai.TypeString},
					"platform": {Type: genai.TypeString},
				},
				Required: []string{"title", "url", "platform"},
			},
		},
		"extractedText": {Type: genai.TypeString},
	},
	Required: []string{"scores", "summary", "skills", "authenticityFeedback", "suggestedRoles", "learningResources", "extractedText"},
}

var matchSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"matchProbability":     {Type: genai.TypeNumber, Description: "Fit score based on skills"},
		"placementProbability": {Type: genai.TypeNumber, Description: "Weighted hiring probability"},
		"explanation":          {Type: genai.TypeString},
		"missingSkills":        stringArraySchema(),
	},
	Required: []string{"matchProbability", "placementProbability", "explanation", "missingSkills"},
}
