// Package registry owns palette's local view of the color collection.
//
// # Overview
//
// The remote color service is the only authority on which records exist and
// what their ids are. Store keeps a copy of the last list it fetched plus the
// transient state the UI needs around it: the record open for editing, the
// most recently deleted record (for undo) and the code that was just copied.
//
//	UI gesture ──→ Store.Create / CommitEdit / Remove / UndoRemove
//	                   │
//	                   ├─ normalize, validate
//	                   ├─ Service call (lock released)
//	                   ├─ NotificationSink
//	                   └─ Load ──→ Records replaced wholesale
//
// Records are never inserted optimistically. Every successful mutation is
// followed by a fresh Load, and a failed mutation leaves Records as they were.
//
// # Modes
//
// There are two modes. Browsing is the default; BeginEdit enters Editing and
// a successful CommitEdit or CancelEdit leaves it. Copy, Remove and UndoRemove
// are available in both.
//
// # Undo
//
// Remove snapshots the record into PendingUndo before the delete request is
// sent. If the delete fails the previous snapshot is put back. Only one level
// is kept: a second Remove replaces the snapshot. UndoRemove posts the
// snapshot's code, name and category as a new record, so the restored record
// gets a new id.
//
// # Ordering
//
// Loads are tagged with a sequence number. A response is applied only when no
// later-requested load has been applied already, so a slow early response
// cannot overwrite the aftermath of a later operation.
//
// # Copy feedback
//
// Copy sets CopiedCode and schedules its expiry through a Scheduler. A new
// Copy stops the pending timer and bumps a generation counter, so a timer that
// fires late cannot clear a newer code.
//
// # Observers
//
// Subscribe returns a channel holding at most one State. Publishing replaces
// an unread State instead of blocking, so a slow reader sees the latest state
// and never stalls the store. Notifications are sent after the lock is
// released.
package registry
