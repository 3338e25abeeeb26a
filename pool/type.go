package pool

// Type identifies the semantic layer a pool batches for. Pools are drawn
// in ascending Type order.
type Type uint8

// Pool types.
const (
	TypeMap Type = iota
	TypeCreatureInformation
	TypeLight
	TypeText
	TypeForeground
	TypeUnknown
)

// Types lists every pool type in draw order.
var Types = [...]Type{
	TypeMap,
	TypeCreatureInformation,
	TypeLight,
	TypeText,
	TypeForeground,
	TypeUnknown,
}

// String returns a human-readable name for the pool type.
func (t Type) String() string {
	switch t {
	case TypeMap:
		return "Map"
	case TypeCreatureInformation:
		return "CreatureInformation"
	case TypeLight:
		return "Light"
	case TypeText:
		return "Text"
	case TypeForeground:
		return "Foreground"
	case TypeUnknown:
		return "Unknown"
	default:
		return "Invalid"
	}
}

// Framed reports whether pools of this type render into a frame buffer.
func (t Type) Framed() bool {
	return t == TypeMap || t == TypeLight || t == TypeForeground
}
