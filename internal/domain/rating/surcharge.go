package rating

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SurchargeScope says which kind of charge a surcharge rides on
type SurchargeScope string

const (
	SurchargeScopeFreight SurchargeScope = "FREIGHT"
)

// SurchargeDef is a named charge policy
type SurchargeDef struct {
	ID          uuid.UUID
	Name        string
	Scope       SurchargeScope
	ServiceCode *string // nil applies to every service
	GLCode      *string
}

// AppliesTo reports whether the definition applies to freight on the given service
func (d SurchargeDef) AppliesTo(serviceCode string) bool {
	if d.Scope != SurchargeScopeFreight {
		return false
	}
	return d.ServiceCode == nil || *d.ServiceCode == serviceCode
}

// SurchargeRate is the per-container amount of a surcharge for one container type
type SurchargeRate struct {
	ID               uuid.UUID
	Def              SurchargeDef
	ContainerISOCode string
	Amount           decimal.Decimal
}
