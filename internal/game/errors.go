package game

import "errors"

// Engine failures. All of these are recovered at the verb boundary and
// turned into a message for the invoking player; none of them mutate
// table state.
var (
	ErrNotFound        = errors.New("not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrEmptyLibrary    = errors.New("library is empty")
	ErrTableFull       = errors.New("table is full")
	ErrInvalidState    = errors.New("invalid state")
	ErrAlreadyInState  = errors.New("already in that state")
)
