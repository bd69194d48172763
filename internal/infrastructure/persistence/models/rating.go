package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/rating"
	"github.com/shopspring/decimal"
)

// QuotationRoutingModel maps a quoted port pair to its service. Unique per (quotation_id, pol, pod).
type QuotationRoutingModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	QuotationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quotation_routings_route,priority:1"`
	POL         string    `gorm:"column:pol;type:char(5);not null;uniqueIndex:idx_quotation_routings_route,priority:2"`
	POD         string    `gorm:"column:pod;type:char(5);not null;uniqueIndex:idx_quotation_routings_route,priority:3"`
	ServiceCode string    `gorm:"type:varchar(20);not null"`
	Commodity   string    `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (QuotationRoutingModel) TableName() string {
	return "quotation_routings"
}

// ToDomain converts the persistence model to a domain QuotationRouting.
func (m *QuotationRoutingModel) ToDomain() *rating.QuotationRouting {
	return &rating.QuotationRouting{
		ID:          m.ID,
		QuotationID: m.QuotationID,
		POL:         m.POL,
		POD:         m.POD,
		ServiceCode: m.ServiceCode,
		Commodity:   m.Commodity,
	}
}

// ContainerTypeModel is a physical container spec keyed by ISO 6346 size/type code.
type ContainerTypeModel struct {
	ISOCode   string          `gorm:"column:iso_code;type:varchar(4);primary_key"`
	TEUFactor decimal.Decimal `gorm:"column:teu_factor;type:decimal(6,2);not null"`
	Group     string          `gorm:"column:rating_group;type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ContainerTypeModel) TableName() string {
	return "container_types"
}

// ToDomain converts the persistence model to a domain ContainerType.
func (m *ContainerTypeModel) ToDomain() *rating.ContainerType {
	return &rating.ContainerType{
		ISOCode:   m.ISOCode,
		TEUFactor: m.TEUFactor,
		Group:     m.Group,
	}
}

// FromDomain populates the persistence model from a domain ContainerType.
func (m *ContainerTypeModel) FromDomain(c *rating.ContainerType) {
	m.ISOCode = c.ISOCode
	m.TEUFactor = c.TEUFactor
	m.Group = c.Group
}

// TariffModel is a time-bounded freight rate.
type TariffModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	ServiceCode string          `gorm:"type:varchar(20);not null;index:idx_tariffs_lookup,priority:1"`
	POL         string          `gorm:"column:pol;type:char(5);not null;index:idx_tariffs_lookup,priority:2"`
	POD         string          `gorm:"column:pod;type:char(5);not null;index:idx_tariffs_lookup,priority:3"`
	Commodity   string          `gorm:"type:varchar(50);not null;index:idx_tariffs_lookup,priority:4"`
	Group       string          `gorm:"column:rating_group;type:varchar(20);not null;index:idx_tariffs_lookup,priority:5"`
	RatePerTEU  decimal.Decimal `gorm:"column:rate_per_teu;type:decimal(18,4);not null"`
	ValidFrom   time.Time       `gorm:"not null"`
	ValidTo     *time.Time
}

// TableName returns the table name for GORM
func (TariffModel) TableName() string {
	return "tariffs"
}

// ToDomain converts the persistence model to a domain Tariff.
func (m *TariffModel) ToDomain() rating.Tariff {
	return rating.Tariff{
		ID:          m.ID,
		ServiceCode: m.ServiceCode,
		POL:         m.POL,
		POD:         m.POD,
		Commodity:   m.Commodity,
		Group:       m.Group,
		RatePerTEU:  m.RatePerTEU,
		ValidFrom:   m.ValidFrom,
		ValidTo:     m.ValidTo,
	}
}

// SurchargeDefModel is a named charge policy.
type SurchargeDefModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Name        string    `gorm:"type:varchar(100);not null;index"`
	Scope       string    `gorm:"type:varchar(20);not null"`
	ServiceCode *string   `gorm:"type:varchar(20)"`
	GLCode      *string   `gorm:"column:gl_code;type:varchar(20)"`
}

// TableName returns the table name for GORM
func (SurchargeDefModel) TableName() string {
	return "surcharge_defs"
}

// ToDomain converts the persistence model to a domain SurchargeDef.
func (m *SurchargeDefModel) ToDomain() rating.SurchargeDef {
	return rating.SurchargeDef{
		ID:          m.ID,
		Name:        m.Name,
		Scope:       rating.SurchargeScope(m.Scope),
		ServiceCode: m.ServiceCode,
		GLCode:      m.GLCode,
	}
}

// SurchargeRateModel is the amount of a surcharge for one container type.
type SurchargeRateModel struct {
	ID                   uuid.UUID         `gorm:"type:uuid;primary_key"`
	SurchargeDefID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	Def                  SurchargeDefModel `gorm:"foreignKey:SurchargeDefID"`
	ContainerTypeISOCode string            `gorm:"column:container_type_iso_code;type:varchar(4);not null;index"`
	Amount               decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (SurchargeRateModel) TableName() string {
	return "surcharge_rates"
}

// ToDomain converts the persistence model to a domain SurchargeRate.
// Def must have been preloaded.
func (m *SurchargeRateModel) ToDomain() rating.SurchargeRate {
	return rating.SurchargeRate{
		ID:               m.ID,
		Def:              m.Def.ToDomain(),
		ContainerISOCode: m.ContainerTypeISOCode,
		Amount:           m.Amount,
	}
}
