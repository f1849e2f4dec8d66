// Package tracking accepts container position reports.
//
// Each accepted sample is appended to the container's bounded trail. Samples
// arriving faster than Config.MinInterval after the last persisted write are
// coalesced: the newest becomes the container's pending sample and is written
// by FlushPending. A persisted sample updates the container's live position,
// mirrors it onto the active order holding the container (best effort, in a
// separate transaction) and is handed to the LocationPublisher.
//
// Timestamps are monotonic per container: a sample that is not newer than the
// last accepted one is ignored without error, so replays are harmless.
package tracking
