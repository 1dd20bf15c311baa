package errors

// Kind classifies the nature of a failure. The set is closed: every
// failure produced by the systems layer carries one of the kinds below,
// and native error codes without a documented mapping collapse to
// [KindUnknown].
//
// Kinds are small integers so they can be compared and switched on
// cheaply; [Kind.Name] and [Kind.Description] provide the stable strings
// used in diagnostics.
type Kind uint8

const (
	// KindUnknown is a failure with no more specific classification.
	KindUnknown Kind = iota

	// KindPermission indicates the caller lacks the rights for the operation.
	KindPermission

	// KindInvalidParameter indicates an argument was rejected.
	KindInvalidParameter

	// KindIO indicates a low-level input/output failure.
	KindIO

	// KindTooLong indicates a value exceeded its maximum length.
	KindTooLong

	// KindNoSuchObject indicates the named object does not exist.
	KindNoSuchObject

	// KindOutOfMemory indicates an allocation could not be satisfied.
	KindOutOfMemory

	// KindWrongObjectType indicates the object exists but has the wrong type
	// (e.g., a directory where a file was expected).
	KindWrongObjectType

	// KindAlreadyExists indicates the object to be created already exists.
	KindAlreadyExists

	// KindOutOfSpace indicates storage is exhausted.
	KindOutOfSpace

	// KindOutOfHandles indicates the process or system handle table is full.
	KindOutOfHandles

	// KindTooShort indicates a buffer or value is shorter than required.
	KindTooShort

	// KindBadContent indicates data is malformed.
	KindBadContent

	// KindBadOperation indicates the operation is not valid for the
	// object's current state.
	KindBadOperation

	// KindInUse indicates the object is busy or held by someone else.
	KindInUse

	// KindNotImplemented indicates the selected backend has no body for
	// the operation.
	KindNotImplemented

	// KindOutOfBounds indicates an index or address is outside its range.
	KindOutOfBounds

	// KindInvalidControl indicates a handle or control value is invalid.
	KindInvalidControl

	// KindBadAlignment indicates a value does not meet an alignment
	// requirement.
	KindBadAlignment

	kindCount
)

type kindInfo struct {
	name        string
	description string
}

// kindTable holds the immutable metadata for every kind. It is indexed by
// Kind and must have exactly one entry per constant above.
var kindTable = [kindCount]kindInfo{
	KindUnknown:          {"unknown", "an unknown error occurred"},
	KindPermission:       {"permission", "permission denied"},
	KindInvalidParameter: {"invalid_parameter", "an invalid parameter was passed"},
	KindIO:               {"io", "an input/output error occurred"},
	KindTooLong:          {"too_long", "the value is too long"},
	KindNoSuchObject:     {"no_such_object", "no such object exists"},
	KindOutOfMemory:      {"out_of_memory", "out of memory"},
	KindWrongObjectType:  {"wrong_object_type", "the object has the wrong type"},
	KindAlreadyExists:    {"already_exists", "the object already exists"},
	KindOutOfSpace:       {"out_of_space", "no space left"},
	KindOutOfHandles:     {"out_of_handles", "too many open handles"},
	KindTooShort:         {"too_short", "the value is too short"},
	KindBadContent:       {"bad_content", "the content is malformed"},
	KindBadOperation:     {"bad_operation", "the operation is not valid in this state"},
	KindInUse:            {"in_use", "the object is in use"},
	KindNotImplemented:   {"not_implemented", "the operation is not implemented by this backend"},
	KindOutOfBounds:      {"out_of_bounds", "the value is out of bounds"},
	KindInvalidControl:   {"invalid_control", "an invalid handle or control value was used"},
	KindBadAlignment:     {"bad_alignment", "the value is not correctly aligned"},
}

func (k Kind) info() kindInfo {
	if k >= kindCount {
		return kindTable[KindUnknown]
	}
	return kindTable[k]
}

// Name returns the stable snake_case name of the kind. Values outside the
// closed set report the name of [KindUnknown].
func (k Kind) Name() string {
	return k.info().name
}

// Description returns a short human-readable description of the kind.
func (k Kind) Description() string {
	return k.info().description
}

// String returns [Kind.Name].
func (k Kind) String() string {
	return k.Name()
}

// Valid reports whether k is a member of the closed set.
func (k Kind) Valid() bool {
	return k < kindCount
}

// Kinds returns every kind in declaration order. The slice is a fresh
// copy on each call.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// KindByName returns the kind with the given name.
func KindByName(name string) (Kind, bool) {
	for i, info := range kindTable {
		if info.name == name {
			return Kind(i), true
		}
	}
	return KindUnknown, false
}
