package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEnhanceSuccess(t *testing.T) {
	var gotModel, gotSystem, gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		gotModel = req.Model
		if len(req.Messages) == 2 {
			gotSystem = req.Messages[0].Content
			gotUser = req.Messages[1].Content
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": " Hello, world. "}},
			},
		})
	}))
	defer srv.Close()

	e := NewOpenAI(Config{BaseURL: srv.URL, Model: "llama-3.1-8b-instant"})
	out, err := e.Enhance(context.Background(), "um hello world")
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if out != "Hello, world." {
		t.Errorf("out = %q", out)
	}
	if gotModel != "llama-3.1-8b-instant" {
		t.Errorf("model = %q", gotModel)
	}
	if gotSystem != DefaultPrompt {
		t.Errorf("system prompt = %q, want default", gotSystem)
	}
	if gotUser != "um hello world" {
		t.Errorf("user message = %q", gotUser)
	}
}

func TestEnhanceTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can observe the client closing the
		// connection and cancel the request context.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	e := NewOpenAI(Config{BaseURL: srv.URL, Model: "m", Timeout: 50 * time.Millisecond})
	_, err := e.Enhance(context.Background(), "text")
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}

func TestEnhanceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewOpenAI(Config{BaseURL: srv.URL, Model: "m"})
	_, err := e.Enhance(context.Background(), "text")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestEnhanceEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "   "}},
			},
		})
	}))
	defer srv.Close()

	e := NewOpenAI(Config{BaseURL: srv.URL, Model: "m"})
	if _, err := e.Enhance(context.Background(), "text"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestEnhanceUnreachable(t *testing.T) {
	e := NewOpenAI(Config{BaseURL: "http://127.0.0.1:1", Model: "m", Timeout: time.Second})
	if _, err := e.Enhance(context.Background(), "text"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
