// Package media stores uploaded files on the media host and removes them again.
package media

import (
	"context"
	"edulearn/config"
	"edulearn/logger"
	"edulearn/models"
	"mime/multipart"
	"path"
	"strings"
)

// Asset is an uploaded file as delivered by the media host.
type Asset struct {
	URL          string `json:"secure_url"`
	PublicID     string `json:"public_id"`
	ResourceType string `json:"resource_type"`
}

// Uploader is implemented by every media backend.
type Uploader interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (*Asset, error)
	Destroy(ctx context.Context, url string) error
}

// Default is the uploader used by the controllers.
var Default Uploader = NewLocalStore("./public/uploads", "/uploads")

// Init picks Cloudinary when it is configured and the local store otherwise.
func Init(cfg *config.Config) {
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryApiKey != "" && cfg.CloudinaryApiSecret != "" {
		Default = NewCloudinary(cfg.CloudinaryBaseURL, cfg.CloudinaryCloudName, cfg.CloudinaryApiKey, cfg.CloudinaryApiSecret)
		return
	}
	logger.Log.Warn("cloudinary is not configured, storing uploads on local disk")
	Default = NewLocalStore("./public/uploads", strings.TrimRight(cfg.BaseURL, "/")+"/uploads")
}

var (
	videoExts = map[string]bool{"mp4": true, "mov": true, "webm": true, "mkv": true, "avi": true}
	rawExts   = map[string]bool{"js": true, "css": true, "txt": true, "zip": true, "doc": true, "docx": true}
)

// ResourceType maps a file name or URL to video, raw or image by extension.
func ResourceType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	switch {
	case videoExts[ext]:
		return models.ResourceVideo
	case rawExts[ext]:
		return models.ResourceRaw
	}
	return models.ResourceImage
}

// ParseURL extracts the public id and resource type from a delivered URL such as
// https://res.cloudinary.com/demo/video/upload/v1712/lectures/intro.mp4.
func ParseURL(url string) (publicID, resourceType string, ok bool) {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	parts := strings.Split(url, "/")

	idx := -1
	for i, p := range parts {
		if p == "upload" {
			idx = i
			break
		}
	}
	if idx < 0 || idx+1 >= len(parts) {
		return "", "", false
	}

	rest := parts[idx+1:]
	if len(rest) > 1 && len(rest[0]) > 1 && rest[0][0] == 'v' && isDigits(rest[0][1:]) {
		rest = rest[1:]
	}

	id := strings.Join(rest, "/")
	resourceType = ResourceType(id)
	// raw public ids keep their extension
	if resourceType != models.ResourceRaw {
		id = strings.TrimSuffix(id, path.Ext(id))
	}
	if id == "" {
		return "", "", false
	}
	return id, resourceType, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
