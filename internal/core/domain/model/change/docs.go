// Package change defines the change-feed vocabulary: raw row notifications
// emitted by the asset store, the typed events delivered to subscribers,
// the snapshots they carry, and subscriber scopes.
//
// Snapshot JSON field names match the store's column names, so a trigger
// that serialises a row with row_to_json decodes directly into a snapshot.
package change
