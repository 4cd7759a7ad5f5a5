package media

import (
	"bytes"
	"context"

	"quickai-backend/internal/shared/storage/object"
)

// StoreUploader hosts generated images on the configured object store
// (local disk or S3) when no media CDN is configured.
type StoreUploader struct {
	Store object.ObjectStore
	// Namespace groups stored images; usually the requesting user's ID.
	Namespace string
}

// Upload saves the image bytes and returns the store's public URL.
func (u StoreUploader) Upload(ctx context.Context, image []byte, name string) (string, error) {
	namespace := u.Namespace
	if namespace == "" {
		namespace = "generated"
	}
	key, _, _, err := u.Store.Save(ctx, namespace, name, bytes.NewReader(image))
	if err != nil {
		return "", err
	}
	return u.Store.URL(key), nil
}

var _ Uploader = StoreUploader{}
