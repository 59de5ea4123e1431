// Package parser calls the natural language task parsing service.
// The service turns free text like "finish slides by friday p1" into
// structured task fields. A circuit breaker guards the CLI from a
// slow or failing service.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrParserUnavailable indicates the breaker is open or the service is down.
var ErrParserUnavailable = errors.New("task parser unavailable")

// ParsedTask is the structured result of parsing free text.
type ParsedTask struct {
	Title        string     `json:"title"`
	Priority     string     `json:"priority"`
	Due          *time.Time `json:"due,omitempty"`
	EstMin       int        `json:"est_min"`
	Window       string     `json:"window"`
	Energy       string     `json:"energy"`
	HardDeadline bool       `json:"hard_deadline"`
}

// Client talks to the parser service over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[ParsedTask]
	logger     *slog.Logger
}

// NewClient creates a parser client for the given base URL.
func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:    "task-parser",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("parser breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    gobreaker.NewCircuitBreaker[ParsedTask](settings),
		logger:     logger,
	}
}

// Parse sends free text to the service and returns structured fields.
func (c *Client) Parse(ctx context.Context, text string) (ParsedTask, error) {
	result, err := c.breaker.Execute(func() (ParsedTask, error) {
		return c.doParse(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return ParsedTask{}, fmt.Errorf("%w: %v", ErrParserUnavailable, err)
		}
		return ParsedTask{}, err
	}
	return result, nil
}

func (c *Client) doParse(ctx context.Context, text string) (ParsedTask, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return ParsedTask{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/parse", bytes.NewReader(body))
	if err != nil {
		return ParsedTask{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ParsedTask{}, fmt.Errorf("%w: %v", ErrParserUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ParsedTask{}, fmt.Errorf("parser returned %d: %s", resp.StatusCode, payload)
	}

	var parsed ParsedTask
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ParsedTask{}, fmt.Errorf("failed to decode parser response: %w", err)
	}
	if parsed.Title == "" {
		return ParsedTask{}, errors.New("parser returned an empty title")
	}
	return parsed, nil
}
