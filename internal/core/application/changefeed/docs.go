// Package changefeed fans committed row changes and location samples out to
// scoped subscribers.
//
// Row changes arrive from one or more ports.ChangeStream sources and location
// samples from the tracker through PublishLocation. A single dispatcher drops
// duplicates by (table, row id, version), stamps each event with a sequence
// number and hands it to every subscription whose scope matches. Producers are
// never blocked: ingestion is unbounded and a subscriber whose buffer is full
// loses the event instead of stalling the dispatcher.
package changefeed
