package element

import "errors"

// Domain errors for model construction and solving.
var (
	// ErrDegenerateGeometry indicates an element whose end nodes coincide.
	ErrDegenerateGeometry = errors.New("element: degenerate geometry (zero length element)")

	// ErrUnknownNode indicates a reference to a node the structure does not own.
	ErrUnknownNode = errors.New("element: unknown node")

	// ErrConflictingConstraint indicates a DOF that is supported and constrained,
	// or constrained by more than one master.
	ErrConflictingConstraint = errors.New("element: conflicting constraint")

	// ErrSingularSystem indicates a reduced stiffness matrix that cannot be factorised,
	// usually an unrestrained rigid body mode.
	ErrSingularSystem = errors.New("element: singular system (insufficient supports)")

	// ErrInvalidInput indicates malformed properties, vectors or DOF indices.
	ErrInvalidInput = errors.New("element: invalid input")
)
