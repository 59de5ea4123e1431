package parser_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/tasks/infrastructure/parser"
)

func TestClient_Parse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/parse", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "finish slides by friday p1", body["text"])

		_ = json.NewEncoder(w).Encode(parser.ParsedTask{
			Title:    "finish slides",
			Priority: "p1",
			EstMin:   60,
			Window:   "any",
			Energy:   "medium",
		})
	}))
	defer server.Close()

	client := parser.NewClient(server.URL, "secret", nil)

	parsed, err := client.Parse(context.Background(), "finish slides by friday p1")
	require.NoError(t, err)
	assert.Equal(t, "finish slides", parsed.Title)
	assert.Equal(t, "p1", parsed.Priority)
	assert.Equal(t, 60, parsed.EstMin)
}

func TestClient_Parse_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := parser.NewClient(server.URL, "", nil)

	_, err := client.Parse(context.Background(), "anything")
	assert.ErrorContains(t, err, "parser returned 500")
}

func TestClient_Parse_BreakerOpensAfterFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := parser.NewClient(server.URL, "", nil)

	for i := 0; i < 3; i++ {
		_, err := client.Parse(context.Background(), "text")
		require.Error(t, err)
	}

	// Breaker is open now, the request never reaches the server.
	_, err := client.Parse(context.Background(), "text")
	assert.ErrorIs(t, err, parser.ErrParserUnavailable)
}

func TestClient_Parse_EmptyTitleRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(parser.ParsedTask{Title: ""})
	}))
	defer server.Close()

	client := parser.NewClient(server.URL, "", nil)

	_, err := client.Parse(context.Background(), "???")
	assert.ErrorContains(t, err, "empty title")
}
