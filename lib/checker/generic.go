package checker

import (
	"context"
	"regexp"

	"github.com/fiffu/stockwatch/lib/models"
	"github.com/fiffu/stockwatch/lib/render"
)

// Matches schema.org availability values, including JSON-escaped slashes.
var schemaAvailable = regexp.MustCompile(`(?i)schema\.org(?:\\/|/)(?:InStock|PreOrder)`)

type GenericAdapter struct {
	renderer render.Renderer
}

func NewGenericAdapter(renderer render.Renderer) *GenericAdapter {
	return &GenericAdapter{renderer}
}

func (a *GenericAdapter) Name() string { return "generic" }

func (a *GenericAdapter) Check(ctx context.Context, productURL string) (*models.Verdict, error) {
	markup, err := a.renderer.Render(ctx, productURL)
	if err != nil {
		return nil, err
	}
	return &models.Verdict{Available: MarkupIndicatesAvailable(markup)}, nil
}

func MarkupIndicatesAvailable(markup string) bool {
	return schemaAvailable.MatchString(markup)
}
