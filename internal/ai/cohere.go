package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultEndpoint   = "https://api.cohere.ai/v1/generate"
	DefaultAPIVersion = "2022-12-06"
)

// GenerateConfig fixes the sampling parameters sent with every request.
type GenerateConfig struct {
	Endpoint    string
	APIVersion  string
	MaxTokens   int
	Temperature float64
	K           int
	Timeout     time.Duration
}

func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Endpoint:    DefaultEndpoint,
		APIVersion:  DefaultAPIVersion,
		MaxTokens:   2048,
		Temperature: 0.7,
		K:           0,
	}
}

type GenerateRequest struct {
	APIKey string
	Model  string
	Prompt string
}

// Generator is the single outbound call the service depends on.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

type CohereClient struct {
	cfg        GenerateConfig
	httpClient *http.Client
}

func NewCohereClient(cfg GenerateConfig) *CohereClient {
	return NewCohereClientWithHTTP(cfg, &http.Client{Timeout: cfg.Timeout})
}

func NewCohereClientWithHTTP(cfg GenerateConfig, httpClient *http.Client) *CohereClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &CohereClient{cfg: cfg, httpClient: httpClient}
}

type generatePayload struct {
	Model             string   `json:"model"`
	Prompt            string   `json:"prompt"`
	MaxTokens         int      `json:"max_tokens"`
	Temperature       float64  `json:"temperature"`
	K                 int      `json:"k"`
	StopSequences     []string `json:"stop_sequences"`
	ReturnLikelihoods string   `json:"return_likelihoods"`
}

// Generate performs exactly one request and returns the first candidate.
func (c *CohereClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	bodyBytes, err := json.Marshal(generatePayload{
		Model:             req.Model,
		Prompt:            req.Prompt,
		MaxTokens:         c.cfg.MaxTokens,
		Temperature:       c.cfg.Temperature,
		K:                 c.cfg.K,
		StopSequences:     []string{},
		ReturnLikelihoods: "NONE",
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build generate request failed: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Cohere-Version", c.cfg.APIVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("read generate response failed: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newStatusError(resp, raw)
	}

	var parsed struct {
		Generations []struct {
			Text string `json:"text"`
		} `json:"generations"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse generate json failed: %w", err)
	}
	if len(parsed.Generations) == 0 {
		return "", ErrNoGenerations
	}
	return parsed.Generations[0].Text, nil
}

func newStatusError(resp *http.Response, raw []byte) *StatusError {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)
	msg := body.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}
