// Package order provides the Order aggregate: a transport job linking a
// customer, a container and, once taken, an operator and a vehicle.
//
// The package includes:
//   - Order: the aggregate root with assignment-aware lifecycle transitions
//   - Status: the order state machine
//   - PaymentStatus: the payment state carried alongside the order
//
// Key business rules:
//   - Orders are created pending and never deleted; completed and cancelled are terminal
//   - Lifecycle: pending -> confirmed -> processing -> shipped -> delivered -> completed,
//     with cancelled reachable from every non-terminal status
//   - Vehicle and transporter are set if and only if the status is active
//     (confirmed, processing, shipped or delivered)
//   - Intermediate transitions are forward-only
package order
