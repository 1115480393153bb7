package transcriber

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewSelectsBackend(t *testing.T) {
	if _, ok := New(Config{Endpoint: "http://localhost:8080/v1"}).(*server); !ok {
		t.Error("endpoint config should select the server backend")
	}
	if _, ok := New(Config{Profile: "base.en"}).(*whisperCpp); !ok {
		t.Error("empty endpoint should select the whisper.cpp backend")
	}
}

func TestServerTranscribe(t *testing.T) {
	var gotModel, gotLang, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parsing multipart form: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLang = r.FormValue("language")
		gotAuth = r.Header.Get("Authorization")
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.Write([]byte(`{"text": "  hello world  "}`))
	}))
	defer srv.Close()

	tr := newServer(Config{
		Profile:    "whisper-large-v3",
		Endpoint:   srv.URL,
		APIKey:     "sk-test",
		Language:   "en",
		SampleRate: 16000,
		Channels:   1,
	})
	text, err := tr.Transcribe(context.Background(), make([]byte, 3200))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello world" {
		t.Errorf("text = %q, want trimmed %q", text, "hello world")
	}
	if gotModel != "whisper-large-v3" {
		t.Errorf("model field = %q", gotModel)
	}
	if gotLang != "en" {
		t.Errorf("language field = %q", gotLang)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth header = %q", gotAuth)
	}
}

func TestServerStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrModelUnavailable},
		{http.StatusForbidden, ErrModelUnavailable},
		{http.StatusInternalServerError, ErrFailed},
		{http.StatusTooManyRequests, ErrFailed},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/models" {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(tt.status)
			w.Write([]byte("upstream error\nsecond line"))
		}))
		_, err := newServer(Config{SampleRate: 16000, Channels: 1, Endpoint: srv.URL}).
			Transcribe(context.Background(), make([]byte, 320))
		srv.Close()
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: err = %v, want %v", tt.status, err, tt.want)
		}
		if err != nil && strings.Contains(err.Error(), "second line") {
			t.Errorf("status %d: error should carry only the first line: %v", tt.status, err)
		}
	}
}

func TestServerLoadUnreachable(t *testing.T) {
	tr := newServer(Config{Endpoint: "http://127.0.0.1:1"})
	if err := tr.Load(); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("Load error = %v, want ErrModelUnavailable", err)
	}
}

func TestWhisperCppLoadMissingModel(t *testing.T) {
	tr := newWhisperCpp(Config{Profile: "base.en", ModelDir: t.TempDir()})
	err := tr.Load()
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("Load error = %v, want ErrModelUnavailable", err)
	}
}

func TestWhisperCppModelPath(t *testing.T) {
	tr := newWhisperCpp(Config{Profile: "small", ModelDir: "/opt/models"})
	got := tr.resolveModelPath()
	want := "/opt/models/ggml-small.bin"
	if got != want {
		t.Errorf("model path = %q, want %q", got, want)
	}
}
