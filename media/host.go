package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const defaultHostBaseURL = "https://api.cloudinary.com"

// Host uploads files to the media host with an unsigned upload preset.
// No credential is involved; the preset is the whole authorization, which
// is why this speaks the raw multipart contract instead of the signed SDK.
type Host struct {
	BaseURL      string
	CloudName    string
	UploadPreset string

	httpClient *http.Client
}

func NewHost(cloudName, uploadPreset string) *Host {
	return &Host{
		BaseURL:      defaultHostBaseURL,
		CloudName:    cloudName,
		UploadPreset: uploadPreset,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Upload sends the file under the given folder and returns the durable
// URL. A response without secure_url is a failure no matter what the HTTP
// status said.
func (h *Host) Upload(ctx context.Context, f File, folder string) (string, error) {
	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		part, err := form.CreateFormFile("file", f.Name)
		if err == nil {
			_, err = io.Copy(part, f.Data)
		}
		if err == nil {
			err = form.WriteField("upload_preset", h.UploadPreset)
		}
		if err == nil {
			err = form.WriteField("folder", folder)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	endpoint := fmt.Sprintf("%s/v1_1/%s/auto/upload", h.BaseURL, h.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("media host response unreadable: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("media host returned no secure_url (status %d)", resp.StatusCode)
	}
	return result.SecureURL, nil
}
