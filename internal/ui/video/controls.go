package video

import "sync"

// Control identifies one tool button on the overlay.
type Control int

const (
	ControlDetach Control = iota
	ControlFullscreen
	ControlScreenshot
	ControlMute
	ControlHold
	ControlClose
)

var controlNames = map[Control]string{
	ControlDetach:     "detach",
	ControlFullscreen: "fullscreen",
	ControlScreenshot: "screenshot",
	ControlMute:       "mute",
	ControlHold:       "hold",
	ControlClose:      "close",
}

func (c Control) String() string {
	if name, ok := controlNames[c]; ok {
		return name
	}
	return "unknown"
}

// ControlBar is the widget side of the overlay tool buttons.
type ControlBar interface {
	SetControlVisible(c Control, visible bool)
	SetControlChecked(c Control, checked bool)
}

// ControlSet tracks which controls are part of the active set. Only
// active controls participate in idle hide/show cycles; marking a
// control inactive hides it immediately.
type ControlSet struct {
	mu     sync.Mutex
	bar    ControlBar
	active map[Control]bool
}

// NewControlSet creates a control set with every control inactive.
func NewControlSet(bar ControlBar) *ControlSet {
	cs := &ControlSet{
		bar:    bar,
		active: make(map[Control]bool),
	}
	for c := range controlNames {
		bar.SetControlVisible(c, false)
	}
	return cs
}

// SetActive marks the control active or inactive and syncs its
// visibility.
func (cs *ControlSet) SetActive(c Control, active bool) {
	cs.mu.Lock()
	cs.active[c] = active
	cs.mu.Unlock()
	cs.bar.SetControlVisible(c, active)
}

// IsActive reports whether the control is in the active set.
func (cs *ControlSet) IsActive(c Control) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.active[c]
}

// DeactivateAll removes every control from the active set.
func (cs *ControlSet) DeactivateAll() {
	cs.mu.Lock()
	for c := range cs.active {
		cs.active[c] = false
	}
	cs.mu.Unlock()
	for c := range controlNames {
		cs.bar.SetControlVisible(c, false)
	}
}

// ShowActive reveals the controls in the active set, typically on
// pointer activity.
func (cs *ControlSet) ShowActive() {
	for _, c := range cs.activeControls() {
		cs.bar.SetControlVisible(c, true)
	}
}

// HideActive conceals the controls in the active set on idle timeout.
// Inactive controls are already hidden.
func (cs *ControlSet) HideActive() {
	for _, c := range cs.activeControls() {
		cs.bar.SetControlVisible(c, false)
	}
}

// SetChecked updates a toggle control's pressed state.
func (cs *ControlSet) SetChecked(c Control, checked bool) {
	cs.bar.SetControlChecked(c, checked)
}

func (cs *ControlSet) activeControls() []Control {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]Control, 0, len(cs.active))
	for c, active := range cs.active {
		if active {
			out = append(out, c)
		}
	}
	return out
}
