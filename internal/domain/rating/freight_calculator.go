package rating

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FreightCalculator prices the base freight of a container line
type FreightCalculator struct{}

// Calculate returns ratePerTEU x teuFactor x qty for the container line
func (FreightCalculator) Calculate(line ContainerLine, ct ContainerType, tariff Tariff) Charge {
	amount := tariff.RatePerTEU.
		Mul(ct.TEUFactor).
		Mul(decimal.NewFromInt(int64(line.Quantity)))

	return Charge{
		Kind:        ChargeKindFreight,
		Description: fmt.Sprintf("Ocean freight %d x %s", line.Quantity, line.ISOCode),
		Amount:      amount,
	}
}
