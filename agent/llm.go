package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LLMOptions configures the OpenAI-compatible chat-completions client.
type LLMOptions struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
}

// LLMClient speaks the OpenAI-compatible chat-completions protocol and
// constrains responses to a declared JSON schema.
type LLMClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

func NewLLMClient(opts LLMOptions) *LLMClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &LLMClient{
		baseURL:     baseURL,
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type jsonSchemaFormat struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CompleteJSON sends the messages and decodes the schema-constrained
// response into out.
func (c *LLMClient) CompleteJSON(ctx context.Context, messages []ChatMessage, schemaName string, schema map[string]any, out any) error {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   schemaName,
				Schema: schema,
				Strict: true,
			},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("LLM API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if chatResp.Error != nil {
		return fmt.Errorf("LLM API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return fmt.Errorf("LLM returned no choices")
	}

	content := chatResp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("failed to decode structured output: %w, content: %s", err, content)
	}

	return nil
}

const intakePersona = "You are a senior reinsurance underwriting analyst. " +
	"You help teammates validate AI-extracted contract details. " +
	"Analyse the extraction snapshot, highlight missing or low-confidence fields, " +
	"and propose next steps. Respond strictly in JSON using the provided schema."

const reviewPersona = "You are a reinsurance compliance analyst. " +
	"Review the contract snapshot and respond with a structured JSON payload " +
	"that summarises key points, flags risks, and recommends actions."

// LiveAnalyzer backs both workflows with schema-constrained model calls.
type LiveAnalyzer struct {
	client *LLMClient
}

func NewLiveAnalyzer(client *LLMClient) *LiveAnalyzer {
	return &LiveAnalyzer{client: client}
}

func (l *LiveAnalyzer) AnalyseIntake(ctx context.Context, s *State) (*IntakeAnalysis, error) {
	messages, err := promptMessages(intakePersona, "Extraction snapshot (JSON)", s, IntakeAnalysisSchema())
	if err != nil {
		return nil, err
	}

	var analysis IntakeAnalysis
	if err := l.client.CompleteJSON(ctx, messages, "guided_intake_analysis", IntakeAnalysisSchema(), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (l *LiveAnalyzer) AnalyseReview(ctx context.Context, s *State) (*ReviewAnalysis, error) {
	messages, err := promptMessages(reviewPersona, "Contract snapshot (JSON)", s, ReviewAnalysisSchema())
	if err != nil {
		return nil, err
	}

	var analysis ReviewAnalysis
	if err := l.client.CompleteJSON(ctx, messages, "contract_review_analysis", ReviewAnalysisSchema(), &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// promptMessages renders the role-tagged prompt: system persona with
// format instructions, the prior conversation in order, a system message
// carrying the JSON context block, and the latest user instruction.
func promptMessages(persona, contextLabel string, s *State, schema map[string]any) ([]ChatMessage, error) {
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render format instructions: %w", err)
	}
	contextJSON, err := json.MarshalIndent(s.Snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render context: %w", err)
	}

	messages := make([]ChatMessage, 0, len(s.History)+3)
	messages = append(messages, ChatMessage{
		Role:    RoleSystem,
		Content: fmt.Sprintf("%s\nThe output must conform to this JSON schema:\n%s", persona, schemaJSON),
	})
	messages = append(messages, s.History...)
	messages = append(messages, ChatMessage{
		Role:    RoleSystem,
		Content: fmt.Sprintf("%s:\n%s", contextLabel, contextJSON),
	})
	messages = append(messages, ChatMessage{
		Role:    RoleUser,
		Content: s.UserInput,
	})

	return messages, nil
}
