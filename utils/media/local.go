package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps uploads on disk below dir and serves them from urlPrefix.
type LocalStore struct {
	dir       string
	urlPrefix string
}

func NewLocalStore(dir, urlPrefix string) *LocalStore {
	return &LocalStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *LocalStore) Upload(_ context.Context, file *multipart.FileHeader) (*Asset, error) {
	// Open the uploaded file
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// Create destination directory if it doesn't exist
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, err
	}

	// Create a unique filename
	ext := filepath.Ext(file.Filename)
	name := fmt.Sprintf("%s%d%s", time.Now().Format("20060102150405"), time.Now().UnixNano()%1e6, ext)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return nil, err
	}

	return &Asset{
		URL:          s.urlPrefix + "/" + name,
		PublicID:     strings.TrimSuffix(name, ext),
		ResourceType: ResourceType(name),
	}, nil
}

func (s *LocalStore) Destroy(_ context.Context, url string) error {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(url, s.urlPrefix+"/"))
	err := os.Remove(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
