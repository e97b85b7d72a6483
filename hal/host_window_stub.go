//go:build !tinygo && !cgo

package hal

import (
	"context"
	"fmt"
)

func RunWindow(_ Options, _ func(context.Context, HAL) error) error {
	return fmt.Errorf("window mode requires cgo (build/run with CGO_ENABLED=1): %w", ErrNotImplemented)
}
