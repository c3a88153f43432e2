package analyze

import "context"

// Describer obtains a raw textual description of a JPEG image from the
// vision provider.
type Describer interface {
	Describe(ctx context.Context, imageJPEG []byte) (string, error)
}
