package entities

import "errors"

// Resolution errors. Callers match them with errors.Is; every layer wraps them
// with the item or building that triggered the failure.
var (
	ErrUnknownItem         = errors.New("unknown item")
	ErrUnknownBuildingKind = errors.New("unknown building kind")
	ErrUnknownBoostLevel   = errors.New("unknown boost level")
	ErrInvalidRecipe       = errors.New("invalid recipe")
	ErrCyclicRecipe        = errors.New("cyclic recipe")
)
