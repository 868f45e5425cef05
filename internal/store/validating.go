package store

import (
	"context"

	"swcommons/internal/schema"
	"swcommons/pkg/models"
)

// Validating rejects documents that do not satisfy the schema registry
// before they reach the wrapped gateway.
type Validating struct {
	Gateway
	registry *schema.Registry
}

// WithSchema wraps g with schema validation on Insert and Patch
func WithSchema(g Gateway, registry *schema.Registry) *Validating {
	return &Validating{Gateway: g, registry: registry}
}

func (v *Validating) Insert(ctx context.Context, c models.Collection, doc models.Document) (string, error) {
	if err := v.registry.Validate(c, doc); err != nil {
		return "", err
	}
	return v.Gateway.Insert(ctx, c, doc)
}

func (v *Validating) Patch(ctx context.Context, c models.Collection, id string, fields models.Document) error {
	if err := v.registry.ValidatePatch(c, fields); err != nil {
		return err
	}
	return v.Gateway.Patch(ctx, c, id, fields)
}
