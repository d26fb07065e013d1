package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"renewable-forecast/internal/models"
	"renewable-forecast/shared/config"

	"google.golang.org/genai"
)

// generateFunc sends a prompt to the model and returns its text reply
type generateFunc func(ctx context.Context, prompt string) (string, error)

// Narrator turns a forecast digest into a short operator-facing summary
type Narrator struct {
	model    string
	generate generateFunc
}

// NewNarrator returns nil when no Gemini API key is configured; a nil
// Narrator leaves digests without a narrative.
func NewNarrator(ctx context.Context, cfg *config.AIConfig) (*Narrator, error) {
	if cfg.GeminiAPIKey == "" {
		log.Printf("Gemini API key not configured, forecast narratives disabled")
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	n := &Narrator{model: cfg.Model}
	n.generate = func(ctx context.Context, prompt string) (string, error) {
		contents := []*genai.Content{
			genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
		}
		result, err := client.Models.GenerateContent(ctx, n.model, contents, nil)
		if err != nil {
			return "", err
		}
		return result.Text(), nil
	}
	return n, nil
}

// Summarize asks the model for a narrative of the digest
func (n *Narrator) Summarize(ctx context.Context, digest *models.ForecastDigest) (string, error) {
	if n == nil {
		return "", nil
	}
	if digest == nil || len(digest.Sites) == 0 {
		return "", fmt.Errorf("digest has no sites to summarize")
	}

	response, err := n.generate(ctx, buildPrompt(digest))
	if err != nil {
		return "", fmt.Errorf("failed to summarize run %s: %w", digest.RunID, err)
	}
	if strings.TrimSpace(response) == "" {
		return "", fmt.Errorf("empty narrative response for run %s", digest.RunID)
	}

	return parseNarrative(response), nil
}

func buildPrompt(digest *models.ForecastDigest) string {
	var sites strings.Builder
	for _, s := range digest.Sites {
		if s.Failed() {
			fmt.Fprintf(&sites, "- %s (%s): FAILED - %s\n", s.Name, s.Kind, s.Error)
			continue
		}
		fmt.Fprintf(&sites, "- %s (%s, %.0f kW): %d hours, %.2f kWh total, %.2f kWh/h average, capacity factor %.1f%%\n",
			s.Name, s.Kind, s.CapacityKW, s.DataPoints, s.TotalKWh, s.AverageHourly, s.CapacityFactor*100)
		for _, p := range s.Projections {
			fmt.Fprintf(&sites, "    projected %d: %.0f kWh (degradation %.4f, capacity factor %.1f%%)\n",
				p.Year, p.TotalKWh, p.DegradationFactor, p.CapacityFactor*100)
		}
	}

	return fmt.Sprintf(`You are an assistant for a renewable energy operator reviewing generation forecasts.

FORECAST RUN %s (%s):
%s
INSTRUCTIONS:
1. Summarize the expected output across the fleet in 2-3 sentences
2. Call out sites with unusually low or high capacity factors
3. Mention any failed sites and what the operator should check
4. Do not invent numbers that are not listed above

Please provide your answer in the following JSON format:
{
  "summary": "2-3 sentence overview",
  "highlights": ["short actionable observation", "..."]
}`, digest.RunID, digest.Generated.Format("2006-01-02 15:04"), sites.String())
}

// parseNarrative extracts the JSON answer, falling back to the raw reply
func parseNarrative(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx < startIdx {
		return strings.TrimSpace(response)
	}

	var result struct {
		Summary    string   `json:"summary"`
		Highlights []string `json:"highlights"`
	}
	if err := json.Unmarshal([]byte(response[startIdx:endIdx+1]), &result); err != nil || result.Summary == "" {
		log.Printf("Warning: narrative response was not valid JSON, using raw text")
		return strings.TrimSpace(response)
	}

	var b strings.Builder
	b.WriteString(result.Summary)
	for _, h := range result.Highlights {
		if h = strings.TrimSpace(h); h != "" {
			b.WriteString("\n- ")
			b.WriteString(h)
		}
	}
	return b.String()
}
