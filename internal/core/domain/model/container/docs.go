// Package container provides the Container aggregate: the physical asset being
// transported, with its sensor telemetry, assignment and live position.
//
// Key business rules:
//   - assigned_to and vehicle_id are both null or both set; a partial
//     assignment is never constructed or persisted
//   - Assignment moves the container to active, release moves it to inactive
//   - complete_order records the last order that released the container by completion
package container
