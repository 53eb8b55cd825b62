// Package match ranks near-miss names for diagnostics.
//
// Name correlation in the mapping engine is exact. When it fails, this
// package computes which source members come closest so the error can
// suggest them.
//
// Key functions:
//   - NormalizeIdent: folds case and separators
//   - Levenshtein: edit distance between strings
//   - Suggest: best-scoring candidate names above a threshold
package match
