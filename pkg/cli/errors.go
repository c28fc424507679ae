package cli

import "errors"

// Common CLI errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrRenderFormat     = errors.New("--render requires markdown output")
	ErrRenderToFile     = errors.New("--render cannot be combined with -o")
	ErrNoInputs         = errors.New("no input files")
)
