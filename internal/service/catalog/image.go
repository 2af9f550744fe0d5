package catalog

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore keeps uploaded media on local disk and produces the public URL
// each file is served under.
type FileStore struct {
	dir     string
	baseURL string
}

func NewFileStore(dir, baseURL string) (*FileStore, error) {
	const op = "service.catalog.NewFileStore"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &FileStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save writes data under a collision-free name and returns the URL it will be
// served under. The caller has already verified the content type.
func (fs *FileStore) Save(name string, data []byte) (string, error) {
	const op = "service.catalog.FileStore.Save"

	if err := os.WriteFile(filepath.Join(fs.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return fs.baseURL + "/" + name, nil
}

// Dir is the directory static file serving is mounted on.
func (fs *FileStore) Dir() string { return fs.dir }

// UploadAirplaneImage validates that data is an image, stores it and records
// the resulting URL on the airplane.
func (s *Service) UploadAirplaneImage(ctx context.Context, id int64, filename string, data []byte) (string, error) {
	const op = "service.catalog.UploadAirplaneImage"

	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return "", fmt.Errorf("%s: %w", op, ErrNotImage)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".img"
	}
	name := fmt.Sprintf("airplane_%d_%s%s", id, uuid.NewString(), ext)

	url, err := s.media.Save(name, data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.Fleet().SetAirplaneImage(ctx, id, url); err != nil {
		return "", fmt.Errorf("%s: %w", op, s.mapStoreErr(err))
	}

	return url, nil
}
