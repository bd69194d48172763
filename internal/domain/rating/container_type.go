package rating

import (
	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ContainerType is a physical container spec
type ContainerType struct {
	ISOCode   string
	TEUFactor decimal.Decimal
	Group     string // Rating group tariffs are keyed by, e.g. "DRY20"
}

// Validate checks the container type's invariants
func (c ContainerType) Validate() error {
	if c.ISOCode == "" {
		return shared.NewDomainError("INVALID_CONTAINER_TYPE", "Container ISO code cannot be empty")
	}
	if !c.TEUFactor.IsPositive() {
		return shared.NewDomainError("INVALID_CONTAINER_TYPE", "TEU factor must be positive")
	}
	return nil
}
