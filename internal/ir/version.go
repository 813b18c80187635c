package ir

// Version constants for stored records and the scanner.
const (
	// RecordVersion is the trace record schema version.
	RecordVersion = "1"

	// ScannerVersion is the blockscan scanner version.
	ScannerVersion = "0.1.0"
)
