// Package session manages game session lifecycle and persistence.
//
// The session package provides:
//   - Manager: thread-safe in-memory session registry with UUID identifiers,
//     last-accessed tracking, and expiry cleanup
//   - SessionPersistence: pluggable storage interface
//   - FilePersistence: JSON file storage that persists the level identity and
//     the accepted move log
//
// Persistence is replay-based. A session file does not serialize the live
// board; it records which level the session runs and every accepted move
// since the last reset. Loading rebuilds the engine from the level file and
// replays the log, which reproduces the exact state because accepted moves
// are deterministic.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", levelManager)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//
//	// Restore sessions from a previous run
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Fatal(err)
//	}
package session
