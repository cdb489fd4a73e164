package metagen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPProviderGenerate(t *testing.T) {
	var gotAuth string
	var gotReq completionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"text": "generated output"}]}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, "secret-key", "test-model", 5*time.Second)

	out, err := provider.Generate(context.Background(), "write a title", Options{MaxTokens: 100, Temperature: 0.5})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if out != "generated output" {
		t.Errorf("output = %q, want %q", out, "generated output")
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotReq.Model != "test-model" || gotReq.Prompt != "write a title" {
		t.Errorf("request = %+v", gotReq)
	}
	if gotReq.MaxTokens != 100 {
		t.Errorf("MaxTokens = %d, want 100", gotReq.MaxTokens)
	}
}

func TestHTTPProviderChatStyleResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"content": "chat output"}}]}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL, "", "", 5*time.Second)

	out, err := provider.Generate(context.Background(), "prompt", Options{})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if out != "chat output" {
		t.Errorf("output = %q, want %q", out, "chat output")
	}
}

func TestHTTPProviderErrors(t *testing.T) {
	t.Run("no endpoint configured", func(t *testing.T) {
		provider := NewHTTPProvider("", "", "", 0)
		_, err := provider.Generate(context.Background(), "prompt", Options{})
		if !errors.Is(err, ErrProviderUnavailable) {
			t.Errorf("err = %v, want ErrProviderUnavailable", err)
		}
	})

	t.Run("non-2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		provider := NewHTTPProvider(server.URL, "", "", 5*time.Second)
		if _, err := provider.Generate(context.Background(), "prompt", Options{}); err == nil {
			t.Error("expected an error for a 503 response")
		}
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		}))
		defer server.Close()

		provider := NewHTTPProvider(server.URL, "", "", 5*time.Second)
		if _, err := provider.Generate(context.Background(), "prompt", Options{}); err == nil {
			t.Error("expected an error for an empty completion")
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		provider := NewHTTPProvider(server.URL, "", "", 5*time.Second)
		if _, err := provider.Generate(context.Background(), "prompt", Options{}); err == nil {
			t.Error("expected an error for a malformed response body")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": [{"text": "late"}]}`))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		provider := NewHTTPProvider(server.URL, "", "", 5*time.Second)
		if _, err := provider.Generate(ctx, "prompt", Options{}); err == nil {
			t.Error("expected an error for a cancelled context")
		}
	})
}
