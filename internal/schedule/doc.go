// Package schedule drives contracts through processing rounds.
//
// Every contract starts Pending. A round resolves each contract that is not
// terminal against the universe visible in that round: it becomes Resolved
// (and is emitted exactly once), Failed, or Deferred until the next round.
// On the final round a contract that is still deferred fails.
package schedule
