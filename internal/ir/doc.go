// Package ir provides the shared record types for blockscan.
//
// This package contains type definitions and their canonical encodings only.
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Depths are kept as exact column counts; no float arithmetic decides nesting
//   - Trace records are values; stacks inside them are independent copies
//   - All JSON tags use snake_case
//   - Ordering uses logical sequence numbers, never wall-clock timestamps
package ir
