package service

import "context"

// NutritionSource abstracts the external nutrition data provider. Both
// methods are best effort: individual malformed records are dropped, and a
// returned error means the provider as a whole was unreachable or produced
// an unusable payload.
type NutritionSource interface {
	Search(ctx context.Context, term string, limit int) ([]NormalizedFood, error)
	Fetch(ctx context.Context, fdcID string) (*NormalizedFood, error)
}
