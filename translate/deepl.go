package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultDeepLEndpoint is the free-tier endpoint; Pro accounts use
// api.deepl.com instead, configurable via DEEPL_ENDPOINT.
const DefaultDeepLEndpoint = "https://api-free.deepl.com/v2/translate"

// DeepL translates through the DeepL REST API.
type DeepL struct {
	apiKey     string
	targetLang string
	endpoint   string
	client     *http.Client
}

// NewDeepL creates the DeepL backend.
func NewDeepL(apiKey, targetLang string) *DeepL {
	endpoint := DefaultDeepLEndpoint
	if v := os.Getenv("DEEPL_ENDPOINT"); v != "" {
		endpoint = v
	}
	return &DeepL{
		apiKey:     apiKey,
		targetLang: targetLang,
		endpoint:   endpoint,
		client:     &http.Client{Timeout: 60 * time.Second},
	}
}

func (d *DeepL) Name() string { return "deepl" }

func (d *DeepL) Translate(ctx context.Context, text string) (string, error) {
	form := url.Values{
		"auth_key":    {d.apiKey},
		"text":        {text},
		"target_lang": {d.targetLang},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create DeepL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("DeepL request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("DeepL returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read DeepL response: %w", err)
	}

	var parsed struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode DeepL response: %w", err)
	}
	if len(parsed.Translations) == 0 {
		return "", fmt.Errorf("DeepL returned no translations")
	}

	return parsed.Translations[0].Text, nil
}
