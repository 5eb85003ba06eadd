package scripting

import (
	"context"
)

// Engine represents a scripting engine (e.g., JavaScript).
type Engine interface {
	// Execute runs a script and returns its final value.
	Execute(ctx context.Context, script string) (interface{}, error)

	// RegisterImageAPI installs the image constructors and handle
	// methods into the script environment.
	RegisterImageAPI() error
}
