// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package ad

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DescriptionAssistant writes listing copy from a prompt.
type DescriptionAssistant interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ErrAssistantDisabled is returned when no assistant is configured.
var ErrAssistantDisabled = errors.New("ad: description assistant is not configured")

const assistantTimeout = 20 * time.Second

// descriptionPrompt builds the instruction for a listing description.
func descriptionPrompt(title string, category Category, target *RentalTarget) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Write a professional and catchy marketplace description for: %s. Category: %s. ", title, category)
	if category == CategoryToLet && target != nil {
		fmt.Fprintf(&builder, "Target audience: %s. ", *target)
	}
	builder.WriteString("Keep it under 200 words and focus on selling points.")
	return builder.String()
}

// GeminiAssistant calls the generateContent REST endpoint.
type GeminiAssistant struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

// NewGeminiAssistant creates an assistant for model at endpoint.
func NewGeminiAssistant(endpoint, model, apiKey string) *GeminiAssistant {
	return &GeminiAssistant{
		endpoint:   strings.TrimRight(endpoint, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: assistantTimeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GenerateText returns the first candidate's text.
func (assistant *GeminiAssistant) GenerateText(ctx context.Context, prompt string) (string, error) {
	encoded, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("assistant: encode: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", assistant.endpoint, assistant.model)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("assistant: build: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-goog-api-key", assistant.apiKey)

	response, err := assistant.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("assistant: call: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, response.Body)
		return "", fmt.Errorf("assistant: status %d", response.StatusCode)
	}

	var decoded geminiResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("assistant: decode: %w", err)
	}

	var builder strings.Builder
	if len(decoded.Candidates) > 0 {
		for _, part := range decoded.Candidates[0].Content.Parts {
			builder.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", errors.New("assistant: empty response")
	}
	return text, nil
}
