package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/HR1937/community-care/services"
)

const maxChatAudioBytes = 25 << 20

var langCodeRegex = regexp.MustCompile(`\[([a-z]{2})\]$`)

// ChatHandler answers a spoken question with a spoken reply: transcribe
// with Gemini, synthesize the answer with ElevenLabs, archive the clip.
type ChatHandler struct {
	geminiKey   string
	elevenKey   string
	cloudName   string
	cloudKey    string
	cloudSecret string
	audioDir    string
}

func NewChatHandler(geminiKey, elevenKey, cloudName, cloudKey, cloudSecret string) *ChatHandler {
	return &ChatHandler{
		geminiKey:   geminiKey,
		elevenKey:   elevenKey,
		cloudName:   cloudName,
		cloudKey:    cloudKey,
		cloudSecret: cloudSecret,
		audioDir:    "public/audio",
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxChatAudioBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No audio uploaded")
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No audio uploaded")
		return
	}
	defer file.Close()

	tempFile, err := os.CreateTemp("", "audio_*"+filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store audio")
		log.Println("Chat temp file error:", err)
		return
	}
	defer os.Remove(tempFile.Name())

	if _, err := io.Copy(tempFile, file); err != nil {
		tempFile.Close()
		writeError(w, http.StatusInternalServerError, "Failed to store audio")
		log.Println("Chat copy error:", err)
		return
	}
	tempFile.Close()

	services.ArchiveAudio(r.Context(), h.cloudName, h.cloudKey, h.cloudSecret, tempFile.Name())

	replyText, err := h.generateReply(r.Context(), tempFile.Name(), header.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, http.StatusBadGateway, "Chatbot failed")
		log.Println("Chat reply error:", err)
		return
	}

	langCode := "en"
	if matches := langCodeRegex.FindStringSubmatch(replyText); len(matches) > 1 {
		langCode = matches[1]
	}
	replyText = strings.TrimSpace(langCodeRegex.ReplaceAllString(replyText, ""))

	speech, err := services.Synthesize(h.elevenKey, replyText, langCode)
	if err != nil {
		writeError(w, http.StatusBadGateway, "Failed to generate speech")
		log.Println("Chat synthesis error:", err)
		return
	}

	if err := os.MkdirAll(h.audioDir, 0755); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save reply audio")
		log.Println("Chat mkdir error:", err)
		return
	}
	audioFileName := fmt.Sprintf("reply_%d.mp3", time.Now().UnixNano())
	audioPath := filepath.Join(h.audioDir, audioFileName)
	if err := os.WriteFile(audioPath, speech, 0644); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save reply audio")
		log.Println("Chat write error:", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"reply":     replyText,
		"audioPath": "/audio/" + audioFileName,
	})
}

func (h *ChatHandler) generateReply(ctx context.Context, audioPath, mimeType string) (string, error) {
	if h.geminiKey == "" {
		return "", fmt.Errorf("gemini API key not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(h.geminiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", err
	}
	uploaded, err := client.UploadFile(ctx, "", bytes.NewReader(data), &genai.UploadFileOptions{MIMEType: mimeType})
	if err != nil {
		return "", err
	}

	model := client.GenerativeModel("gemini-1.5-pro")
	prompt := `You are an assistant AI.
1. Transcribe accurately.
2. Detect language.
3. Answer in same language.
4. Append [xx] language code.`
	resp, err := model.GenerateContent(ctx,
		genai.FileData{URI: uploaded.URI, MIMEType: uploaded.MIMEType},
		genai.Text(prompt))
	if err != nil {
		return "", err
	}

	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if text, ok := part.(genai.Text); ok && string(text) != "" {
				return string(text), nil
			}
		}
	}
	return "", fmt.Errorf("no response from model")
}
