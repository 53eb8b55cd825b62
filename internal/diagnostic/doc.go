// Package diagnostic provides structured diagnostics and the error
// taxonomy shared by contract extraction, resolution and scheduling.
//
// Key capabilities:
//   - Info/warning/error diagnostics with type pair and parameter context
//   - ContractError, the typed failure attached to a single contract
//   - Near-miss suggestions for missing counterparts
package diagnostic
