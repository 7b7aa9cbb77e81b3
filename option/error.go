package option

import "errors"

// Sentinel errors.
var (
	ErrUnknownType     = errors.New("unknown option type")
	ErrUnknownScope    = errors.New("unknown option scope")
	ErrUnknownOption   = errors.New("unknown option")
	ErrInvalidName     = errors.New("invalid option name")
	ErrDuplicate       = errors.New("option already defined")
	ErrInvalidValue    = errors.New("invalid value")
	ErrUnsupportedOp   = errors.New("operation not supported")
	ErrReadDefinitions = errors.New("failed to read option definitions")
)
