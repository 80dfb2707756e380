package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// messageTruncateLen bounds the prompt size for token/cost control.
const messageTruncateLen = 500

const (
	// FallbackResponse is the canned reply used whenever classification
	// fails outright.
	FallbackResponse = "Thank you for contacting us. We have received your message and will get back to you soon."
	// missingResponseFallback replaces an absent/empty response field on an
	// otherwise parseable model reply.
	missingResponseFallback = "Thank you for your message. We will respond soon."
)

const promptTemplate = `Analyze support ticket:
Message: "%s"

Respond in this exact JSON format only:
{
  "sentiment":"pos|neg|neu",
  "intent":"question|complaint|compliment|other",
  "response":"[50-100 word response]"
}`

// Client calls the external generateContent endpoint to classify ticket
// messages. It never returns an error: every failure collapses into the
// fallback triple, with the fallback flag set so callers can count it.
type Client struct {
	endpoint        string
	apiKey          string
	httpClient      *http.Client
	logger          *zap.Logger
	maxOutputTokens int
	temperature     float64
}

// NewClient constructs the classifier client.
func NewClient(cfg config.ClassifierConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint:        cfg.Endpoint,
		apiKey:          cfg.APIKey,
		httpClient:      &http.Client{Timeout: timeout},
		logger:          logger,
		maxOutputTokens: cfg.MaxOutputTokens,
		temperature:     cfg.Temperature,
	}
}

type generateContentRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type analysisPayload struct {
	Sentiment string `json:"sentiment"`
	Intent    string `json:"intent"`
	Response  string `json:"response"`
}

// Analyze classifies a free-text message. The second return value reports
// whether the result is the fallback triple rather than a real model
// answer.
func (c *Client) Analyze(ctx context.Context, message string) (domain.TicketAnalysis, bool) {
	if c.apiKey == "" {
		c.logger.Warn("classifier API key not configured; using fallback result")
		return Fallback(), true
	}

	text, err := c.generate(ctx, buildPrompt(message))
	if err != nil {
		c.logger.Warn("classifier call failed", zap.Error(err))
		return Fallback(), true
	}

	raw, ok := extractJSON(text)
	if !ok {
		c.logger.Warn("no JSON object in classifier output")
		return Fallback(), true
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		c.logger.Warn("unparseable classifier output", zap.Error(err))
		return Fallback(), true
	}

	response := payload.Response
	if strings.TrimSpace(response) == "" {
		response = missingResponseFallback
	}
	return domain.TicketAnalysis{
		Sentiment: NormalizeSentiment(payload.Sentiment),
		Intent:    NormalizeIntent(payload.Intent),
		Response:  response,
	}, false
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateContentRequest{
		Contents: []requestContent{{Parts: []requestPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxOutputTokens,
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", c.endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("model endpoint returned %d: %s", resp.StatusCode, detail)
	}

	var parsed generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func buildPrompt(message string) string {
	// Character-based, not byte-based, so a multi-byte rune at the
	// boundary is never split into invalid UTF-8.
	if runes := []rune(message); len(runes) > messageTruncateLen {
		message = string(runes[:messageTruncateLen])
	}
	return fmt.Sprintf(promptTemplate, message)
}

// extractJSON returns the first brace-delimited substring, guarding
// against commentary the model may emit around the JSON object.
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// Fallback returns the canned neutral/other/apology triple.
func Fallback() domain.TicketAnalysis {
	return domain.TicketAnalysis{
		Sentiment: domain.SentimentNeutral,
		Intent:    domain.IntentOther,
		Response:  FallbackResponse,
	}
}

// NormalizeSentiment maps free-form model output onto the closed sentiment
// taxonomy via case-insensitive prefix match.
func NormalizeSentiment(value string) domain.Sentiment {
	lower := strings.ToLower(value)
	switch {
	case strings.HasPrefix(lower, "pos"):
		return domain.SentimentPositive
	case strings.HasPrefix(lower, "neg"):
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

// NormalizeIntent maps free-form model output onto the closed intent
// taxonomy via case-insensitive substring match.
func NormalizeIntent(value string) domain.Intent {
	lower := strings.ToLower(value)
	switch {
	case strings.Contains(lower, "question"):
		return domain.IntentQuestion
	case strings.Contains(lower, "complaint"):
		return domain.IntentComplaint
	case strings.Contains(lower, "compliment"):
		return domain.IntentCompliment
	default:
		return domain.IntentOther
	}
}
