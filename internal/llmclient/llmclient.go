// Package llmclient implements the LLM Extractor (C9): it prompts a
// language model with article text, a matched-keyword set, and optional
// publication-date context, then parses the reply into a StructuredEvent.
//
// The transport itself is an opaque capability; Classifier is the
// narrow interface the rest of the pipeline depends on, backed here by a
// concrete anthropic-sdk-go adapter.
package llmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/JoaoCarabetta/arquivo-da-violencia-sub001/internal/domain"
)

// maxPromptChars is the article-body truncation length.
const maxPromptChars = 3000

// StructuredEvent is the typed, all-optional-fields record the language
// model emits, with IsValid as the discriminator.
type StructuredEvent struct {
	IsValid    bool
	Summary    string
	VictimName *string
	Location   *string
	Date       *string
	Confidence float64
}

// fallbackStub is returned whenever the call cannot be trusted: missing
// credentials, transport failure, malformed JSON, or a decode exception
//. Downstream flows degrade rather than stall.
func fallbackStub() StructuredEvent {
	return StructuredEvent{IsValid: true, Summary: "fallback", Confidence: domain.DefaultConfidence}
}

// Classifier is the opaque Classify(text, context) → StructuredEvent |
// invalid capability.
type Classifier interface {
	Classify(ctx context.Context, text string, keywords []string, publicationDate *time.Time) StructuredEvent
}

// AnthropicClassifier is the concrete adapter behind Classifier. Credential
// absence is detected once at construction time (cold-start, per spec
// §4.8), after which every Classify call short-circuits to the fallback
// stub without attempting a network call.
type AnthropicClassifier struct {
	client   anthropic.Client
	model    anthropic.Model
	hasCreds bool
	logger   *zap.Logger
}

// NewAnthropicClassifier builds a classifier. An empty apiKey marks the
// cold-start no-credentials condition; Classify then always returns the
// fallback stub without making a request.
func NewAnthropicClassifier(apiKey string, model anthropic.Model, logger *zap.Logger) *AnthropicClassifier {
	hasCreds := apiKey != ""
	var opts []option.RequestOption
	if hasCreds {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &AnthropicClassifier{
		client:   anthropic.NewClient(opts...),
		model:    model,
		hasCreds: hasCreds,
		logger:   logger,
	}
}

func (c *AnthropicClassifier) Classify(ctx context.Context, text string, keywords []string, publicationDate *time.Time) StructuredEvent {
	if !c.hasCreds {
		return fallbackStub()
	}

	prompt := buildPrompt(text, keywords, publicationDate)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("llm classify failed, using fallback stub", zap.Error(err))
		}
		return fallbackStub()
	}

	var raw string
	for _, block := range resp.Content {
		if block.Type == "text" {
			raw += block.Text
		}
	}

	ev, err := ParseReply(raw)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("llm reply parse failed, using fallback stub", zap.Error(err))
		}
		return fallbackStub()
	}
	return ev
}

// buildPrompt renders the extraction prompt, truncating the article body
// to maxPromptChars and priming the model with
// the publication date when available so it can resolve relative
// expressions like "ontem" or "sexta-feira passada".
func buildPrompt(text string, keywords []string, publicationDate *time.Time) string {
	truncated := text
	if runes := []rune(truncated); len(runes) > maxPromptChars {
		truncated = string(runes[:maxPromptChars])
	}

	dateContext := ""
	if publicationDate != nil {
		dateContext = fmt.Sprintf(
			"\nArticle Publication Date: %s\nUse this date as reference to interpret relative dates like \"hoje\", \"ontem\", \"esta sexta-feira\", \"na última semana\", etc.\n",
			publicationDate.Format("2006-01-02"))
	}

	return fmt.Sprintf(`Analyze the following news text and extract information about a SPECIFIC violent death/homicide.
%s
Return a JSON object with the following fields:
- "is_valid": boolean (true if it describes a specific murder/homicide/body found, false otherwise)
- "summary": string (concise summary of the event, 1-2 sentences. In Portuguese.)
- "victim_name": string or null (name(s) of ALL victims if mentioned, concatenated with separators when multiple)
- "location": string or null (specific location like street, neighborhood, or city if mentioned)
- "date": string or null (date of the EVENT in YYYY-MM-DD format)
- "confidence": float (0.0 to 1.0)

Text Snippet:
"%s"...

Keywords found: %s

JSON Response:
`, dateContext, truncated, strings.Join(keywords, ", "))
}

// replyJSON mirrors the language model's reply schema for tolerant decode.
type replyJSON struct {
	IsValid    *bool    `json:"is_valid"`
	Summary    string   `json:"summary"`
	VictimName *string  `json:"victim_name"`
	Location   *string  `json:"location"`
	Date       *string  `json:"date"`
	Confidence *float64 `json:"confidence"`
}

// ParseReply strips Markdown code fences if present, then JSON-decodes the
// reply into a StructuredEvent. Returns an error for the caller
// to fall back on for any malformed input.
func ParseReply(raw string) (StructuredEvent, error) {
	cleaned := stripFences(raw)

	var r replyJSON
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return StructuredEvent{}, fmt.Errorf("llmclient: decode reply: %w", err)
	}

	ev := StructuredEvent{
		Summary:    r.Summary,
		VictimName: r.VictimName,
		Location:   r.Location,
		Date:       r.Date,
	}
	if r.IsValid != nil {
		ev.IsValid = *r.IsValid
	}
	if r.Confidence != nil {
		ev.Confidence = *r.Confidence
	} else {
		ev.Confidence = domain.DefaultConfidence
	}
	return ev, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, "```json") {
		parts := strings.SplitN(s, "```json", 2)
		if len(parts) == 2 {
			s = strings.SplitN(parts[1], "```", 2)[0]
		}
	} else if strings.Contains(s, "```") {
		parts := strings.SplitN(s, "```", 2)
		if len(parts) == 2 {
			s = strings.SplitN(parts[1], "```", 2)[0]
		}
	}
	return strings.TrimSpace(s)
}
