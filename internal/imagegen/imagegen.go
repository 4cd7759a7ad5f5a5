package imagegen

import "context"

// Client abstracts text-to-image providers. Implementations return raw image
// bytes ready for upload to durable media hosting.
type Client interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}
