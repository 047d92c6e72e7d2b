package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"alfredoptarigan/placement-copilot/internal/models"
)

var (
	ErrMissingAPIKey     = errors.New("GEMINI_API_KEY is not set")
	ErrInvalidAIResponse = errors.New("invalid response from AI")
)

// GeminiService is the analysis and job-match collaborator.
type GeminiService interface {
	AnalyzeResume(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error)
	MatchJob(ctx context.Context, resumeText, jobDescription string) (*models.MatchResult, error)
}

type geminiService struct {
	client        *genai.Client
	modelName     string
	promptBuilder *PromptBuilder
}

// NewGeminiService builds the client. An empty API key is not an error here:
// every call then fails with ErrMissingAPIKey so the user sees it as a
// banner.
func NewGeminiService(ctx context.Context, apiKey, modelName string) (GeminiService, error) {
	svc := &geminiService{
		modelName:     modelName,
		promptBuilder: NewPromptBuilder(),
	}
	if apiKey == "" {
		log.Println("⚠️  GEMINI_API_KEY is empty, analysis calls will fail")
		return svc, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	svc.client = client
	return svc, nil
}

// AnalyzeResume implements GeminiService.
func (g *geminiService) AnalyzeResume(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error) {
	var parts []*genai.Part
	if req.File != nil {
		parts = []*genai.Part{
			genai.NewPartFromBytes(req.File.Data, req.File.MediaType),
			genai.NewPartFromText(g.promptBuilder.BuildFileAnalysisPrompt()),
		}
	} else {
		parts = []*genai.Part{
			genai.NewPartFromText(g.promptBuilder.BuildTextAnalysisPrompt(req.Text)),
		}
	}

	text, err := g.generateJSON(ctx, parts, analysisSchema)
	if err != nil {
		return nil, err
	}

	var result models.AnalysisResponse
	if err := parseJSONResponse(text, &result); err != nil {
		log.Printf("❌ Failed to parse Gemini analysis response: %v", err)
		return nil, err
	}
	return &result, nil
}

// MatchJob implements GeminiService.
func (g *geminiService) MatchJob(ctx context.Context, resumeText, jobDescription string) (*models.MatchResult, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(g.promptBuilder.BuildJobMatchPrompt(resumeText, jobDescription)),
	}

	text, err := g.generateJSON(ctx, parts, matchSchema)
	if err != nil {
		return nil, err
	}

	var result models.MatchResult
	if err := parseJSONResponse(text, &result); err != nil {
		log.Printf("❌ Failed to parse Gemini match response: %v", err)
		return nil, err
	}
	result.MatchProbability = clampScore(result.MatchProbability)
	result.PlacementProbability = clampScore(result.PlacementProbability)
	return &result, nil
}

func (g *geminiService) generateJSON(ctx context.Context, parts []*genai.Part, schema *genai.Schema) (string, error) {
	if g.client == nil {
		return "", ErrMissingAPIKey
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v\n", err)
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrInvalidAIResponse)
	}

	return resp.Text(), nil
}

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)
	if strings.TrimSpace(jsonStr) == "" {
		return fmt.Errorf("%w: empty response", ErrInvalidAIResponse)
	}

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAIResponse, err)
	}
	return nil
}

// extractJSON strips markdown fences and anything outside the outermost
// JSON object.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}
	return text
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
