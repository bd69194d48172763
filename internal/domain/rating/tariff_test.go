package rating

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shipdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = TariffKey{ServiceCode: "AEX1", POL: "AEJEA", POD: "USLAX", Commodity: "FAK", Group: "DRY20"}

func newTariff(from time.Time, to *time.Time) Tariff {
	return Tariff{
		ID:          uuid.New(),
		ServiceCode: testKey.ServiceCode,
		POL:         testKey.POL,
		POD:         testKey.POD,
		Commodity:   testKey.Commodity,
		Group:       testKey.Group,
		RatePerTEU:  decimal.NewFromInt(1200),
		ValidFrom:   from,
		ValidTo:     to,
	}
}

func TestTariff_IsCurrent(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	before := asOf.AddDate(0, -1, 0)
	after := asOf.AddDate(0, 1, 0)

	tests := []struct {
		name string
		from time.Time
		to   *time.Time
		want bool
	}{
		{"open ended", before, nil, true},
		{"closed window containing asOf", before, &after, true},
		{"starts exactly at asOf", asOf, nil, true},
		{"ends exactly at asOf", before, &asOf, true},
		{"not yet valid", after, nil, false},
		{"expired", before.AddDate(0, -1, 0), &before, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newTariff(tt.from, tt.to).IsCurrent(asOf))
		})
	}
}

func TestSelectCurrentTariff(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	lastYear := asOf.AddDate(-1, 0, 0)
	lastMonth := asOf.AddDate(0, -1, 0)

	t.Run("single match", func(t *testing.T) {
		expired := newTariff(lastYear, &lastMonth)
		current := newTariff(lastMonth, nil)

		got, err := SelectCurrentTariff(testKey, []Tariff{expired, current}, asOf)
		require.NoError(t, err)
		assert.Equal(t, current.ID, got.ID)
	})

	t.Run("none", func(t *testing.T) {
		_, err := SelectCurrentTariff(testKey, nil, asOf)
		assert.True(t, errors.Is(err, shared.ErrTariffNotFound))
	})

	t.Run("other key ignored", func(t *testing.T) {
		other := newTariff(lastMonth, nil)
		other.Group = "DRY40"
		_, err := SelectCurrentTariff(testKey, []Tariff{other}, asOf)
		assert.True(t, errors.Is(err, shared.ErrTariffNotFound))
	})

	t.Run("ambiguous", func(t *testing.T) {
		a := newTariff(lastYear, nil)
		b := newTariff(lastMonth, nil)
		_, err := SelectCurrentTariff(testKey, []Tariff{a, b}, asOf)
		assert.True(t, errors.Is(err, shared.ErrAmbiguousTariff))
		assert.Contains(t, err.Error(), a.ID.String())
	})
}
