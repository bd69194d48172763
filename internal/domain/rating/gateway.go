package rating

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReferenceDataGateway is the read-only accessor for pricing reference data.
// Implementations translate a missing routing or container type into
// ROUTE_NOT_FOUND and CONTAINER_TYPE_NOT_FOUND respectively.
type ReferenceDataGateway interface {
	// FindRouting returns the quotation routing for the port pair
	FindRouting(ctx context.Context, quotationID uuid.UUID, pol, pod string) (*QuotationRouting, error)

	// FindContainerType returns the container spec for an ISO code
	FindContainerType(ctx context.Context, isoCode string) (*ContainerType, error)

	// FindCurrentTariffs returns every tariff for key whose window contains asOf
	FindCurrentTariffs(ctx context.Context, key TariffKey, asOf time.Time) ([]Tariff, error)

	// FindSurchargeRates returns all surcharge rates for a container type joined to their definitions
	FindSurchargeRates(ctx context.Context, isoCode string) ([]SurchargeRate, error)

	// FindFeeRates returns the rates of the surcharge definition with the given name
	FindFeeRates(ctx context.Context, defName string) ([]SurchargeRate, error)
}
