package port

import (
	"context"
	"errors"

	"github.com/fhuszti/stored-images-ms-go/internal/model"
)

// ErrURLNotAllowed is returned by a Prober for URLs it refuses to fetch. Retrying cannot help.
var ErrURLNotAllowed = errors.New("url not allowed")

// Prober downloads an image and reports its technical metadata.
type Prober interface {
	Probe(ctx context.Context, url string) (model.ProbedMetadata, error)
}
