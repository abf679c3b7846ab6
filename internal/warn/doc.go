// Package warn carries the repair diagnostics produced while loading a
// tracker.
//
// Repairs are never errors. The tracker reports each one as a Warning to a
// caller-supplied Sink, and the sink decides what happens next: Discard
// drops it, Recorder keeps it for inspection, Printer and Logger report it,
// and Raiser turns it into an error that aborts the load.
package warn
