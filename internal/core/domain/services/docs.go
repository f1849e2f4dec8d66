// Package services provides domain services that apply business rules spanning
// more than one aggregate.
//
// The package includes:
//   - AssignmentPolicy: the order/container/vehicle rules applied when an
//     operator takes, completes or cancels an order
//
// Services mutate the aggregates they are given in memory only; persisting both
// rows atomically is the caller's job.
package services
