//go:build tinygo

package main

import (
	"context"

	"ember/app"
	"ember/hal"
)

func main() {
	s, err := app.New(hal.New(), app.DefaultConfig())
	if err != nil {
		println("ember:", err.Error())
		select {}
	}
	if err := s.Run(context.Background()); err != nil {
		println("ember:", err.Error())
	}
	select {}
}
