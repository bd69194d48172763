// Package rating holds the read-only reference data used to price a shipment
// (quotation routings, container types, tariffs and surcharges) together with
// the pure calculators that turn a container manifest into charges.
package rating
