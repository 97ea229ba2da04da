//go:build !cgo

package main

import (
	"context"
	"errors"
)

func runWindow(context.Context, *loop) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
