// Package generate fetches images from a hosted text-to-image inference
// endpoint.
package generate

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

// DefaultEndpoint is the hosted model used when none is configured.
const DefaultEndpoint = "https://api-inference.huggingface.co/models/stabilityai/stable-diffusion-xl-base-1.0"

// DefaultNegativePrompt steers the model away from common artefacts.
const DefaultNegativePrompt = "low quality, deformed, blurry, text, watermark, signature"

// ErrEmptyPrompt is returned when the prompt is blank.
var ErrEmptyPrompt = errors.New("generate: prompt is required")

// Parameters are the model settings sent with each prompt.
type Parameters struct {
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Steps          int     `json:"num_inference_steps,omitempty"`
	GuidanceScale  float64 `json:"guidance_scale,omitempty"`
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
}

// DefaultParameters returns 768x768 at 25 steps.
func DefaultParameters() Parameters {
	return Parameters{
		NegativePrompt: DefaultNegativePrompt,
		Steps:          25,
		GuidanceScale:  8,
		Width:          768,
		Height:         768,
	}
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
	Options    struct {
		WaitForModel bool `json:"wait_for_model"`
	} `json:"options"`
}

// StatusError reports a non-image response from the endpoint.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generate: status %d: %s", e.Code, e.Message)
}

// Client calls the inference endpoint.
type Client struct {
	Endpoint   string
	Token      string
	Parameters Parameters
	HTTP       *http.Client
	// RetryDelay is how long to wait before retrying a 503 while the model
	// loads.
	RetryDelay time.Duration
}

// New returns a client with default parameters and a three minute timeout.
func New(endpoint, token string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		Endpoint:   endpoint,
		Token:      token,
		Parameters: DefaultParameters(),
		HTTP:       &http.Client{Timeout: 3 * time.Minute},
		RetryDelay: 5 * time.Second,
	}
}

// Generate sends prompt and returns the encoded image. A 503 is retried
// once after RetryDelay.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	req := request{Inputs: prompt, Parameters: c.Parameters}
	req.Options.WaitForModel = true
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	data, err := c.post(ctx, body)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusServiceUnavailable {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.RetryDelay):
		}
		data, err = c.post(ctx, body)
	}
	return data, err
}

func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("generate: read response: %w", err)
	}
	if resp.StatusCode == http.StatusOK && strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return data, nil
	}
	return nil, &StatusError{Code: resp.StatusCode, Message: errorMessage(data)}
}

// errorMessage extracts the error text from a JSON body, falling back to
// the first 500 bytes of the raw response.
func errorMessage(body []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	if len(body) > 500 {
		body = body[:500]
	}
	if len(body) == 0 {
		return "image generation failed"
	}
	return string(body)
}
