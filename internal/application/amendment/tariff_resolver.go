package amendment

import (
	"context"
	"fmt"
	"time"

	"github.com/shipdesk/backend/internal/domain/rating"
)

// TariffResolver resolves the current tariff for a key.
// Results are memoized for the lifetime of the resolver, which is one amendment.
type TariffResolver struct {
	gateway rating.ReferenceDataGateway
	memo    map[rating.TariffKey]*rating.Tariff
}

// NewTariffResolver creates a resolver reading from gateway
func NewTariffResolver(gateway rating.ReferenceDataGateway) *TariffResolver {
	return &TariffResolver{
		gateway: gateway,
		memo:    make(map[rating.TariffKey]*rating.Tariff),
	}
}

// Resolve returns the single tariff for key that is current at asOf
func (r *TariffResolver) Resolve(ctx context.Context, key rating.TariffKey, asOf time.Time) (*rating.Tariff, error) {
	if t, ok := r.memo[key]; ok {
		return t, nil
	}

	candidates, err := r.gateway.FindCurrentTariffs(ctx, key, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load tariffs for %s: %w", key, err)
	}

	tariff, err := rating.SelectCurrentTariff(key, candidates, asOf)
	if err != nil {
		return nil, err
	}
	r.memo[key] = tariff
	return tariff, nil
}
