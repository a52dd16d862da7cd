package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	meeting "github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/application/domain"
	"github.com/ayush1432220/Meet-mind-web-App/internal/pkg/meeting/analysis/port"
)

const (
	defaultModel   = "gemini-1.5-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

// GeminiAnalyzer implements port.Analyzer against the Gemini REST API.
type GeminiAnalyzer struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiAnalyzerFromEnv constructs an analyzer from GEMINI_API_KEY and
// optional GEMINI_MODEL.
func NewGeminiAnalyzerFromEnv() (*GeminiAnalyzer, error) {
	key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if key == "" {
		return nil, errors.New("gemini: GEMINI_API_KEY environment variable is not set")
	}
	model := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if model == "" {
		model = defaultModel
	}
	return &GeminiAnalyzer{
		apiKey:  key,
		model:   model,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}, nil
}

var _ port.Analyzer = (*GeminiAnalyzer)(nil)

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiAnalyzer) Analyze(ctx context.Context, transcript []meeting.TranscriptEntry) (*meeting.AnalysisResult, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: buildPrompt(transcript)}}}},
	}
	raw, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: calling API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini: API error (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("gemini: parsing response envelope: %w", err)
	}

	var text strings.Builder
	for _, cand := range apiResp.Candidates {
		for _, p := range cand.Content.Parts {
			text.WriteString(p.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("%w: empty response", port.ErrMalformedOutput)
	}

	return ParseResult(text.String())
}

// ParseResult decodes a model reply into an AnalysisResult. Markdown code
// fences around the JSON are tolerated; anything that is not a JSON object
// with a summary is reported as ErrMalformedOutput.
func ParseResult(text string) (*meeting.AnalysisResult, error) {
	cleaned := stripFences(text)

	var result meeting.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrMalformedOutput, err)
	}
	if strings.TrimSpace(result.Summary) == "" {
		return nil, fmt.Errorf("%w: missing summary", port.ErrMalformedOutput)
	}
	return &result, nil
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func buildPrompt(transcript []meeting.TranscriptEntry) string {
	var lines strings.Builder
	for _, e := range transcript {
		fmt.Fprintf(&lines, "%s (%s): %s\n", e.SpeakerName, e.Timestamp.Format(time.RFC3339), e.Text)
	}

	return fmt.Sprintf(`You are MeetMind, an expert meeting analysis agent.
Analyze the following meeting transcript.
Your response MUST be a single, valid JSON object. Do not add any text before or after the JSON.

The transcript is:
---
%s---

Extract the following information:

1.  **summary**: A concise, 1-2 paragraph professional summary of the meeting.
2.  **keyDecisions**: A string array of key decisions, if any.
3.  **tasks**: An array of objects for action items. For each task, extract:
    * **title**: The actionable task.
    * **assignee**: The name of the person assigned. If unassigned, use "Unassigned".
    * **deadline**: The deadline (e.g., "Friday", "EOD"), or "N/A" if not mentioned.

JSON RESPONSE:
`, lines.String())
}
