package services

import (
	"strings"

	"github.com/username/noonfolio/src/logger"
)

type imageServiceImpl struct {
	store        BlobStore
	imagesPrefix string
}

func NewImageService(store BlobStore, imagesPrefix string) ImageService {
	return &imageServiceImpl{store: store, imagesPrefix: imagesPrefix}
}

// GetSKUImage tries the two fixed image extensions for a SKU. A SKU without
// an image is a normal outcome, not an error.
func (s *imageServiceImpl) GetSKUImage(sku string) ([]byte, string, bool, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, "", false, nil
	}

	candidates := []struct {
		ext         string
		contentType string
	}{
		{".png", "image/png"},
		{".jpg", "image/jpeg"},
	}
	for _, c := range candidates {
		data, _, found, err := s.store.Get(s.imagesPrefix + "/" + sku + c.ext)
		if err != nil {
			return nil, "", false, err
		}
		if found {
			logger.L.Debug("SKU image found", "sku", sku, "ext", c.ext)
			return data, c.contentType, true, nil
		}
	}
	return nil, "", false, nil
}
