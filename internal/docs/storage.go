package docs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/veridoc/doc-custody/internal/adapter"
)

// Storage pins document bytes to content-addressed storage
//
//go:generate mockgen -source=storage.go -destination=../mocks/storage.go -package=mocks -mock_names=Storage=MockStorage
type Storage interface {
	// Pin uploads content and returns its content-addressed reference
	Pin(ctx context.Context, fileName string, contentType string, content []byte) (string, error)

	// ResolveURL turns a content reference into a public gateway URL
	ResolveURL(ref string) string
}

type pinResponse struct {
	Ref string `json:"ref"`
}

// httpStorage pins documents through an HTTP pinning service
type httpStorage struct {
	client     adapter.HTTPClient
	pinURL     string
	gatewayURL string
}

// NewHTTPStorage creates a pinning client against the configured service
func NewHTTPStorage(client adapter.HTTPClient, pinURL, gatewayURL string) Storage {
	return &httpStorage{
		client:     client,
		pinURL:     pinURL,
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
	}
}

// Pin uploads content and returns its content-addressed reference
func (s *httpStorage) Pin(ctx context.Context, fileName string, contentType string, content []byte) (string, error) {
	url := fmt.Sprintf("%s?name=%s", s.pinURL, fileName)
	body, err := s.client.Post(ctx, url, contentType, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to pin document: %w", err)
	}

	var resp pinResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse pin response: %w", err)
	}
	if resp.Ref == "" {
		return "", fmt.Errorf("pin service returned empty reference")
	}
	return resp.Ref, nil
}

// ResolveURL turns a content reference into a public gateway URL
func (s *httpStorage) ResolveURL(ref string) string {
	return s.gatewayURL + "/" + ref
}
