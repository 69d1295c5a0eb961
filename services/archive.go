package services

import (
	"context"
	"log"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ArchiveAudio stores a chatbot voice clip in Cloudinary so conversations
// survive the local disk. Best effort: a failure only loses the archive
// copy, never the chat itself.
func ArchiveAudio(ctx context.Context, cloudName, apiKey, apiSecret, localPath string) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		log.Printf("[ARCHIVE][ERROR] cloudinary init failed: %v", err)
		return
	}
	// Cloudinary files audio under the video resource type.
	_, err = cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		ResourceType: "video",
		Folder:       "audio_files",
	})
	if err != nil {
		log.Printf("[ARCHIVE][ERROR] upload failed: %v", err)
	}
}
