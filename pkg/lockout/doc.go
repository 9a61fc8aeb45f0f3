// Package lockout tracks failed verification attempts per (identity, action)
// key and enforces a sliding-window lockout: once the failure threshold is
// reached within the window, every attempt - including ones with the correct
// code - is blocked until the lockout elapses.
//
// The state machine per key is
//
//	Closed(count=0) -> Closed(count=n)   on failure, n below threshold
//	Closed(count=n) -> Locked(until)     on failure reaching the threshold
//	Locked(until)   -> Closed(count=0)   when the lockout expires
//	any state       -> Closed(count=0)   on any success
//
// Counter state lives in an external TTL-bearing Store rather than process
// memory, so multiple instances share one failure budget and tests can inject
// a deterministic store and clock. MemoryStore suits tests and embedded use;
// RedisStore records failures through a single Lua script so the lockout
// transition is atomic with the increment and no concurrent attempt can slip
// past the threshold on a stale read.
package lockout
