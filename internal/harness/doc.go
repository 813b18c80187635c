// Package harness runs YAML scan scenarios against the scanner.
//
// A scenario names a document, the verdict it should produce and a list of
// assertions over the resulting trace. Each scenario runs with a fresh
// scanner and a fresh in-memory run store, so scenarios never observe each
// other. After scanning, the run is written to the store and replayed; a
// replay that differs from the live trace fails the scenario.
//
// Supported assertions:
//   - trace_contains: a record of the given kind (optionally at a line, with
//     given content) was emitted
//   - trace_order: kinds appear in the given order, gaps allowed
//   - trace_count: a kind was emitted exactly N times
//   - max_stack_depth: no record carries more than N frames
//   - edge_path: the diagram edges traversed, in order ("-" for no edge)
//
// Golden snapshots of the trace live in testdata/golden and are compared
// with goldie; run `go test ./internal/harness -update` to regenerate them.
package harness
