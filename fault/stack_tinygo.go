//go:build tinygo

package fault

// TinyGo cannot walk goroutine stacks.
func captureStack() []byte {
	return nil
}
