package services

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenerateHashtags asks Gemini for hashtags describing the given text.
// Callers treat a failure as "no tags", never as a failed post.
func GenerateHashtags(ctx context.Context, apiKey, text string) ([]string, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-1.5-flash")
	prompt := fmt.Sprintf("Generate many relevant hashtags in English, only hashtags separated by spaces. Text:\n\n%s", text)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	var tags []string
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			t, ok := part.(genai.Text)
			if !ok {
				continue
			}
			for _, w := range strings.Fields(string(t)) {
				if strings.HasPrefix(w, "#") {
					tags = append(tags, w)
				}
			}
		}
	}
	return tags, nil
}
