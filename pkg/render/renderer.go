package render

import (
	"context"

	"github.com/goliatone/go-postgen/pkg/model"
)

// Renderer converts a FormModel plus the current submission state into a
// byte representation (HTML, terminal text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
