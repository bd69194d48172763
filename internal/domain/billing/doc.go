// Package billing provides the invoice model of a booking.
//
// Key Aggregates:
//   - Invoice: One per booking; its total always equals the sum of its lines
//
// Value Objects:
//   - InvoiceLine: One charge, tagged with a LineReference when managed by the amendment engine
//   - LineReference: BASE_FREIGHT and SURCHARGE lines are rebuilt on route changes,
//     at most one AMEND_FEE line exists per invoice
package billing
