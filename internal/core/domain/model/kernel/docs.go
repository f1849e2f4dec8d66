// Package kernel provides core domain primitives shared by every aggregate of
// the assignment service.
//
// The package includes:
//   - ID: the single opaque identifier type used for orders, containers,
//     vehicles, operators and customers
//   - UUID: a value object for subscription handles and other generated identifiers
//   - GeoPoint: a validated latitude/longitude pair
//
// These primitives are immutable values and safe for concurrent use.
package kernel
