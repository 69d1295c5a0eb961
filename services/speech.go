package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	elevenSTTEndpoint = "https://api.elevenlabs.io/v1/speech-to-text"
	elevenTTSEndpoint = "https://api.elevenlabs.io/v1/text-to-speech/%s"
	elevenVoiceID     = "iWNf11sz1GrUE4ppxTOL"
)

var speechHTTPClient = &http.Client{Timeout: 30 * time.Second}

// Transcribe sends a hosted media URL to ElevenLabs speech-to-text.
func Transcribe(apiKey, mediaURL string) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("ElevenLabs API key not configured")
	}

	body, _ := json.Marshal(map[string]string{"url": mediaURL, "language": "en"})
	req, err := http.NewRequest(http.MethodPost, elevenSTTEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", apiKey)

	resp, err := speechHTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ElevenLabs API error: %s", resp.Status)
	}

	var result struct {
		Text  string `json:"text"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Error != "" {
		return "", fmt.Errorf("%s", result.Error)
	}
	return result.Text, nil
}

// Synthesize converts reply text to speech and returns raw mp3 bytes.
func Synthesize(apiKey, text, langCode string) ([]byte, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ElevenLabs API key not configured")
	}

	body, _ := json.Marshal(map[string]interface{}{
		"text": text,
		"voice_settings": map[string]interface{}{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
		"language": langCode,
	})
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf(elevenTTSEndpoint, elevenVoiceID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", apiKey)

	resp, err := speechHTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ElevenLabs API error: %s", string(b))
	}
	return io.ReadAll(resp.Body)
}
