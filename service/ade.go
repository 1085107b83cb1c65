package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vineetsarpal/re-ink/config"
)

// AdeService talks to the agentic document-extraction vendor. Extraction
// is a two-step flow: parse the document to structured markdown, then
// apply the reinsurance field schema to the markdown.
type AdeService struct {
	config     *config.AdeConfig
	httpClient *http.Client
}

// AdeParseRequest asks the vendor to parse a document into markdown.
type AdeParseRequest struct {
	DocumentURL string `json:"document_url"`
	Model       string `json:"model"`
}

// AdeParseResponse is the vendor's parse result.
type AdeParseResponse struct {
	Markdown string         `json:"markdown"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// AdeExtractRequest applies a field schema to parsed markdown.
type AdeExtractRequest struct {
	Markdown string         `json:"markdown"`
	Schema   map[string]any `json:"schema"`
	Model    string         `json:"model"`
}

// ExtractionRaw bundles both vendor responses plus local metadata; the
// normalizer consumes the extract payload.
type ExtractionRaw struct {
	ParseResult   *AdeParseResponse `json:"parse_result"`
	ExtractResult map[string]any    `json:"extract_result"`
	Metadata      map[string]any    `json:"metadata"`
}

func NewAdeService(cfg *config.AdeConfig) *AdeService {
	return &AdeService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// ExtractDocument runs the full parse-then-extract workflow for a document
// reachable at documentURL.
func (s *AdeService) ExtractDocument(ctx context.Context, documentURL, filename string) (*ExtractionRaw, error) {
	parseResult, err := s.Parse(ctx, documentURL)
	if err != nil {
		return nil, fmt.Errorf("document parsing failed: %w", err)
	}
	if parseResult.Markdown == "" {
		return nil, fmt.Errorf("parse API returned empty markdown content")
	}

	extractResult, err := s.Extract(ctx, parseResult.Markdown)
	if err != nil {
		return nil, fmt.Errorf("field extraction failed: %w", err)
	}

	return &ExtractionRaw{
		ParseResult:   parseResult,
		ExtractResult: extractResult,
		Metadata: map[string]any{
			"filename":        filename,
			"markdown_length": len(parseResult.Markdown),
			"parse_model":     s.config.ParseModel,
			"extract_model":   s.config.ExtractModel,
		},
	}, nil
}

// Parse converts a document to structured markdown.
func (s *AdeService) Parse(ctx context.Context, documentURL string) (*AdeParseResponse, error) {
	reqBody := AdeParseRequest{
		DocumentURL: documentURL,
		Model:       s.config.ParseModel,
	}

	var result AdeParseResponse
	if err := s.post(ctx, "/v1/ade/parse", reqBody, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Extract pulls the reinsurance contract fields from parsed markdown. The
// response shape is not contractually fixed, so it is decoded into a
// generic map for the normalizer.
func (s *AdeService) Extract(ctx context.Context, markdown string) (map[string]any, error) {
	reqBody := AdeExtractRequest{
		Markdown: markdown,
		Schema:   ContractExtractionSchema(),
		Model:    s.config.ExtractModel,
	}

	var result map[string]any
	if err := s.post(ctx, "/v1/ade/extract", reqBody, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AdeService) post(ctx context.Context, path string, reqBody, result any) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ADE API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w, body: %s", err, string(body))
	}

	return nil
}
