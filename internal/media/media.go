package media

import "context"

// Uploader persists image bytes to durable hosting and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, image []byte, name string) (string, error)
}

// Transformer applies server-side transformations to an uploaded image and
// returns a durable URL to the result.
type Transformer interface {
	RemoveBackground(ctx context.Context, image []byte) (string, error)
	RemoveObject(ctx context.Context, image []byte, objectName string) (string, error)
}
