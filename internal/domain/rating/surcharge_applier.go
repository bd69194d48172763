package rating

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// SurchargeApplier prices the surcharges that apply to a container line
type SurchargeApplier struct{}

// Apply emits one charge per matching rate, amount = rate x qty.
// Output is sorted by definition name then rate ID.
func (SurchargeApplier) Apply(line ContainerLine, rates []SurchargeRate, serviceCode string) []Charge {
	matching := make([]SurchargeRate, 0, len(rates))
	for _, r := range rates {
		if r.Def.AppliesTo(serviceCode) {
			matching = append(matching, r)
		}
	}

	sort.SliceStable(matching, func(i, j int) bool {
		if matching[i].Def.Name != matching[j].Def.Name {
			return matching[i].Def.Name < matching[j].Def.Name
		}
		return matching[i].ID.String() < matching[j].ID.String()
	})

	qty := decimal.NewFromInt(int64(line.Quantity))
	charges := make([]Charge, 0, len(matching))
	for _, r := range matching {
		charges = append(charges, Charge{
			Kind:        ChargeKindSurcharge,
			Description: fmt.Sprintf("%s %d x %s", r.Def.Name, line.Quantity, line.ISOCode),
			Amount:      r.Amount.Mul(qty),
			GLCode:      r.Def.GLCode,
		})
	}
	return charges
}
