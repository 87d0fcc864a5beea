package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"stayscout/internal/models"
)

// Store saves uploaded listing images on local disk and hands back a
// durable URL plus the storage key the file was saved under.
type Store struct {
	dir     string
	baseURL string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Store{
		dir:     dir,
		baseURL: "/uploads",
	}, nil
}

// Dir returns the directory images are stored in, for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes one uploaded image to disk under a unique key.
func (s *Store) Save(fileHeader *multipart.FileHeader) (models.Image, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return models.Image{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	key := uuid.NewString() + filepath.Ext(fileHeader.Filename)

	dst, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return models.Image{}, fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return models.Image{}, fmt.Errorf("write image file: %w", err)
	}

	return models.Image{
		URL:      s.baseURL + "/" + key,
		Filename: key,
	}, nil
}
