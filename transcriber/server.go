package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"murmur/encoder"
)

// server uploads FLAC-compressed audio to an OpenAI-compatible
// audio/transcriptions endpoint (whisper-server, Groq, OpenAI).
type server struct {
	cfg    Config
	base   string
	client *http.Client

	mu     sync.Mutex
	loaded bool
}

func newServer(cfg Config) *server {
	return &server{
		cfg:    cfg,
		base:   strings.TrimRight(cfg.Endpoint, "/"),
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Load probes the endpoint so an unreachable or misconfigured server is
// reported before the first utterance.
func (s *server) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/models", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	s.authorize(req)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: endpoint rejected credentials (%d)", ErrModelUnavailable, resp.StatusCode)
	}
	s.loaded = true
	return nil
}

func (s *server) Unload() {
	s.mu.Lock()
	s.loaded = false
	s.mu.Unlock()
	s.client.CloseIdleConnections()
}

func (s *server) authorize(req *http.Request) {
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

func (s *server) Transcribe(ctx context.Context, pcm []byte) (string, error) {
	if err := s.Load(); err != nil {
		return "", err
	}

	format := encoder.Format{SampleRate: s.cfg.SampleRate, Channels: s.cfg.Channels}
	audio, name := pcm, "audio.wav"
	if flacData, err := encoder.FLAC(pcm, format); err == nil {
		audio, name = flacData, "audio.flac"
	} else {
		audio = encoder.WAV(pcm, format)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	writer.WriteField("model", s.cfg.Profile)
	writer.WriteField("response_format", "json")
	if s.cfg.Language != "" {
		writer.WriteField("language", s.cfg.Language)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	s.authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrFailed, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: endpoint rejected credentials (%d)", ErrModelUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: endpoint returned %d: %s", ErrFailed, resp.StatusCode, firstLine(string(payload)))
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(payload, &tr); err != nil {
		return "", fmt.Errorf("%w: parsing response: %v", ErrFailed, err)
	}
	return strings.TrimSpace(tr.Text), nil
}
