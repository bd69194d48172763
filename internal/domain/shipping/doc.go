// Package shipping provides domain models for bookings and bill-of-lading drafts.
//
// Key Aggregates:
//   - Booking: A confirmed shipment with its container manifest and amendment cutoff
//   - BLDraft: The editable bill of lading issued for a booking
//
// Value Objects:
//   - Route: A normalized port-of-loading / port-of-discharge pair
//   - RoutePatch: The optional port fields of a route amendment
//   - BLDraftVersion: Immutable before/after snapshot of a draft edit
package shipping
