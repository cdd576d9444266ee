package console

// NoSelection is the selector state before any output has been chosen.
const NoSelection = -1

// OutputButton is one momentary output-device selector.
type OutputButton struct {
	Index  int
	Def    ButtonDef
	Button Debouncer
}

// SelectionState tracks which output device is active.
type SelectionState struct {
	Active int
}

// NewSelectionState returns a selector with nothing chosen.
func NewSelectionState() SelectionState {
	return SelectionState{Active: NoSelection}
}

// Select makes output i active and repaints every button LED so exactly one is
// lit. It reports whether the selection changed; an out-of-range i is a no-op.
func (s *SelectionState) Select(i int, buttons []OutputButton, bus LEDBus) (changed, ok bool) {
	if i < 0 || i >= len(buttons) {
		return false, false
	}
	prev := s.Active
	s.Active = i
	for j := range buttons {
		c := ButtonInactiveColor
		if j == s.Active {
			c = ButtonActiveColor
		}
		SetLED(bus, buttons[j].Def.LED, c)
	}
	return prev != s.Active, true
}
