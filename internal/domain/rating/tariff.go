package rating

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TariffKey identifies the tariffs that can apply to one container group on one route
type TariffKey struct {
	ServiceCode string
	POL         string
	POD         string
	Commodity   string
	Group       string
}

// String returns a compact representation used in errors and logs
func (k TariffKey) String() string {
	return fmt.Sprintf("%s/%s-%s/%s/%s", k.ServiceCode, k.POL, k.POD, k.Commodity, k.Group)
}

// Tariff is a time-bounded freight rate. ValidTo nil means open-ended.
type Tariff struct {
	ID          uuid.UUID
	ServiceCode string
	POL         string
	POD         string
	Commodity   string
	Group       string
	RatePerTEU  decimal.Decimal
	ValidFrom   time.Time
	ValidTo     *time.Time
}

// Key returns the tariff's lookup key
func (t Tariff) Key() TariffKey {
	return TariffKey{
		ServiceCode: t.ServiceCode,
		POL:         t.POL,
		POD:         t.POD,
		Commodity:   t.Commodity,
		Group:       t.Group,
	}
}

// IsCurrent reports whether asOf falls in [ValidFrom, ValidTo]
func (t Tariff) IsCurrent(asOf time.Time) bool {
	if t.ValidFrom.After(asOf) {
		return false
	}
	return t.ValidTo == nil || !t.ValidTo.Before(asOf)
}

// SelectCurrentTariff picks the one tariff for key that is current at asOf.
// Zero matches fail with TARIFF_NOT_FOUND and several with AMBIGUOUS_TARIFF.
func SelectCurrentTariff(key TariffKey, candidates []Tariff, asOf time.Time) (*Tariff, error) {
	var matches []Tariff
	for _, t := range candidates {
		if t.Key() == key && t.IsCurrent(asOf) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return nil, shared.ErrTariffNotFound.WithMessage("No current tariff for %s at %s", key, asOf.UTC().Format(time.RFC3339))
	case 1:
		return &matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID.String()
		}
		return nil, shared.ErrAmbiguousTariff.WithMessage("%d current tariffs for %s: %v", len(matches), key, ids)
	}
}
