package suggestion

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/riskreg/pkg/domain/interfaces"
)

const (
	// MaxSuggestions caps the number of mitigations returned for one draft
	MaxSuggestions = 5

	defaultInstruction = "Suggest 3-5 concise mitigation bullet points for the risk below."
)

// client implements interfaces.SuggestionService on top of an LLM
type client struct {
	llmClient   gollem.LLMClient
	instruction string
}

var _ interfaces.SuggestionService = &client{}

// Option is a functional option for client configuration
type Option func(*client)

// WithInstruction replaces the default user instruction
func WithInstruction(instruction string) Option {
	return func(c *client) {
		if instruction != "" {
			c.instruction = instruction
		}
	}
}

// New creates a suggestion service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (interfaces.SuggestionService, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient:   llmClient,
		instruction: defaultInstruction,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Suggest asks the LLM for mitigation ideas for a draft risk
func (c *client) Suggest(ctx context.Context, req interfaces.SuggestionRequest) ([]string, error) {
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(buildResponseSchema()),
		gollem.WithSessionSystemPrompt(buildSystemPrompt()),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildUserPrompt(c.instruction, req)))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate content from LLM")
	}
	if resp == nil || len(resp.Texts) == 0 {
		return []string{}, nil
	}

	return parseResponse(strings.Join(resp.Texts, "\n")), nil
}

func buildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are a risk management assistant helping an analyst draft a risk register entry.\n\n")
	sb.WriteString("## Instructions:\n\n")
	sb.WriteString("1. Propose practical mitigations for the described risk.\n")
	sb.WriteString("2. Each mitigation is a single short sentence.\n")
	sb.WriteString("3. Do not number the mitigations.\n")
	sb.WriteString("4. Answer in the same language as the risk title.\n")

	return sb.String()
}

func buildUserPrompt(instruction string, req interfaces.SuggestionRequest) string {
	var sb strings.Builder

	sb.WriteString(instruction)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "**Title:** %s\n", req.Title)
	if req.Category != "" {
		fmt.Fprintf(&sb, "**Category:** %s\n", req.Category)
	}

	return sb.String()
}

func buildResponseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "MitigationSuggestionResponse",
		Description: "Mitigation ideas for a risk",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"suggestions": {
				Type:        gollem.TypeArray,
				Description: "Between 3 and 5 mitigation bullet points",
				Required:    true,
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
			},
		},
	}
}

type llmResponse struct {
	Suggestions []string `json:"suggestions"`
}

var bulletPrefix = regexp.MustCompile(`^[\d\.\-\)\s\*•]+`)

// parseResponse accepts the structured JSON answer and falls back to one
// suggestion per line when the model answered in plain text.
func parseResponse(text string) []string {
	var lines []string

	var resp llmResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &resp); err == nil {
		lines = resp.Suggestions
	} else {
		lines = strings.Split(text, "\n")
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		s := strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == MaxSuggestions {
			break
		}
	}

	return out
}
