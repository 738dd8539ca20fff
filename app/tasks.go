package app

import "ember/kernel"

// blink toggles the heartbeat LED. param holds the LED state.
func (s *System) blink(_ kernel.TaskID, param any) {
	on := param.(*bool)
	*on = !*on
	if *on {
		s.h.LED().High()
	} else {
		s.h.LED().Low()
	}
}

// reportButton logs debounced button transitions.
func (s *System) reportButton(kernel.TaskID, any) {
	st := s.Button.Peek()
	if !st.WasPressed && !st.WasReleased {
		return
	}
	missed := s.Button.Missed()
	ev := s.log.Info()
	if missed {
		ev = s.log.Warn()
	}
	ev.Bool("pressed", st.Pressed).
		Bool("was_pressed", st.WasPressed).
		Bool("was_released", st.WasReleased).
		Bool("missed", missed).
		Msg("button")
}
