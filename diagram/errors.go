package diagram

import "errors"

var (
	// ErrInvalidSerialisation is returned when a backing value is not a
	// structurally valid diagram.
	ErrInvalidSerialisation = errors.New("invalid serialisation")
	// ErrDanglingNode is returned when an edge names a node index that does
	// not exist.
	ErrDanglingNode = errors.New("edge references a missing node")
	// ErrGeometryMismatch is returned when a geometry array is not aligned
	// with its data array.
	ErrGeometryMismatch = errors.New("geometry does not match data")
	// ErrInvalidParams is returned by Params.Validate.
	ErrInvalidParams = errors.New("invalid ui params")
)

// Message keys reported by Widget.FailMessage.
const (
	FailInvalidSerialisation = "graph_ui_invalidserialisation"
	FailInvalidParams        = "graph_ui_invalidparams"
)
