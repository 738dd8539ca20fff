//go:build !tinygo

package hal

import "sync/atomic"

// heldPin is an input whose level is set by the host UI.
type heldPin struct {
	name  string
	level atomic.Bool
}

func newHeldPin(name string) *heldPin { return &heldPin{name: name} }

func (p *heldPin) Name() string   { return p.name }
func (p *heldPin) Caps() GPIOCaps { return GPIOCapInput }

func (p *heldPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeInput {
		return pinErr(p.name, "only input supported")
	}
	return nil
}

func (p *heldPin) Read() (bool, error) { return p.level.Load(), nil }

func (p *heldPin) Write(level bool) error {
	return pinErr(p.name, "output unsupported")
}

func (p *heldPin) set(level bool) { p.level.Store(level) }
