//go:build !tinygo && !cgo

package hal

import (
	"context"
	"errors"
)

func runWindow(_ context.Context, _ context.CancelFunc, _ *hostHAL, _ Main, _ RunConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
