package ir

import "fmt"

// ConstructKind is the classification bucket a line is placed into.
//
// KindStart is never produced by classifying content. It marks the idle
// state before the first line and the synthetic record emitted when the
// context stack unwinds.
type ConstructKind uint8

const (
	KindStart ConstructKind = iota
	KindSequence
	KindKeyValue
	KindMultilineStart
	KindInvalid
)

var kindNames = [...]string{
	KindStart:          "START",
	KindSequence:       "SEQUENCE",
	KindKeyValue:       "KEY_VALUE",
	KindMultilineStart: "MULTILINE_START",
	KindInvalid:        "INVALID",
}

// AllKinds lists every construct kind in declaration order.
var AllKinds = []ConstructKind{KindStart, KindSequence, KindKeyValue, KindMultilineStart, KindInvalid}

// String returns the upper-case wire name of the kind.
func (k ConstructKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("ConstructKind(%d)", uint8(k))
}

// Valid reports whether k is one of the declared kinds.
func (k ConstructKind) Valid() bool {
	return int(k) < len(kindNames)
}

// ParseConstructKind converts a wire name back to a ConstructKind.
func ParseConstructKind(s string) (ConstructKind, error) {
	for k, name := range kindNames {
		if name == s {
			return ConstructKind(k), nil
		}
	}
	return KindStart, fmt.Errorf("unknown construct kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k ConstructKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid construct kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ConstructKind) UnmarshalText(text []byte) error {
	parsed, err := ParseConstructKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
