package ecs

import "github.com/rotisserie/eris"

var (
	// ErrMaximumComponentsExceeded is returned when registering a component type would
	// exceed the fixed width of a Signature.
	ErrMaximumComponentsExceeded = eris.New("maximum number of component types exceeded")
	// ErrInvalidComponent is returned for component types that cannot be stored in a pool.
	ErrInvalidComponent = eris.New("invalid component type")
	// ErrComponentNotFound is returned by entity accessors when the entity lacks a component.
	ErrComponentNotFound = eris.New("component not found")
	// ErrDuplicateComponent is returned by the builder when a component type is staged twice.
	ErrDuplicateComponent = eris.New("duplicate component in builder")
	// ErrRegistryNotSet is returned when an Entity handle has no live registry behind it.
	ErrRegistryNotSet = eris.New("entity registry not set")
	// ErrStaleEntity is returned when an Entity handle refers to a destroyed entity.
	ErrStaleEntity = eris.New("stale entity handle")
	// ErrInvalidQuery is returned when a query filter is not a struct of component pointers.
	ErrInvalidQuery = eris.New("invalid query")
	// ErrInvalidSystem is returned when something other than a func is registered as a system.
	ErrInvalidSystem = eris.New("invalid system")
	// ErrSystemNotFound is returned when a system id is not registered under a pipeline.
	ErrSystemNotFound = eris.New("system not found")
	// ErrInvalidResource is returned when a resource value does not fit its key type.
	ErrInvalidResource = eris.New("invalid resource")
)
