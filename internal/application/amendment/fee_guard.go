package amendment

import (
	"context"
	"fmt"
	"time"

	"github.com/shipdesk/backend/internal/domain/billing"
	"github.com/shipdesk/backend/internal/domain/shared"
)

// FeeGuard adds the late-amendment fee to an invoice at most once
type FeeGuard struct {
	SurchargeName string
	GLCode        string
	CostCenter    string
}

// Apply inserts one AMEND_FEE line unless the invoice already has one.
// It reports whether a line was written. The caller must hold the invoice row lock.
func (g FeeGuard) Apply(ctx context.Context, repos TransactionalRepositories, invoice *billing.Invoice, now time.Time) (bool, error) {
	exists, err := repos.InvoiceLines().ExistsByReference(ctx, invoice.ID, billing.LineReferenceAmendFee)
	if err != nil {
		return false, fmt.Errorf("failed to check amendment fee: %w", err)
	}
	if exists {
		return false, nil
	}

	rates, err := repos.ReferenceData().FindFeeRates(ctx, g.SurchargeName)
	if err != nil {
		return false, fmt.Errorf("failed to load fee rate %q: %w", g.SurchargeName, err)
	}
	switch {
	case len(rates) == 0:
		return false, shared.ErrFeeRateNotFound.WithMessage("No rate defined for fee %q", g.SurchargeName)
	case len(rates) > 1:
		return false, shared.ErrAmbiguousFeeRate.WithMessage("%d rates defined for fee %q", len(rates), g.SurchargeName)
	}

	rate := rates[0]
	glCode := g.GLCode
	if rate.Def.GLCode != nil {
		glCode = *rate.Def.GLCode
	}
	line := billing.NewInvoiceLine(invoice.ID, billing.LineReferenceAmendFee, rate.Def.Name, rate.Amount, glCode, g.CostCenter, now)
	if err := repos.InvoiceLines().CreateBatch(ctx, []billing.InvoiceLine{line}); err != nil {
		return false, fmt.Errorf("failed to insert amendment fee: %w", err)
	}
	return true, nil
}
