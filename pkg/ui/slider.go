package ui

import (
	"fmt"
	"strings"
)

// SliderModel is the confidence-threshold slider. It tracks a display value
// that can run ahead of the applied threshold while keystrokes are being
// debounced.
type SliderModel struct {
	value float64
	min   float64
	max   float64
	step  float64
	width int
	theme Theme
}

// NewSlider creates a slider over [min, 1.0] with the given step.
func NewSlider(initial, min, step float64, theme Theme) SliderModel {
	s := SliderModel{
		min:   min,
		max:   1.0,
		step:  step,
		width: 30,
		theme: theme,
	}
	s.value = s.clamp(initial)
	return s
}

// Value returns the current display value.
func (s SliderModel) Value() float64 {
	return s.value
}

// SetValue clamps and sets the display value.
func (s *SliderModel) SetValue(v float64) {
	s.value = s.clamp(v)
}

// SetWidth sets the rendered track width in cells.
func (s *SliderModel) SetWidth(w int) {
	if w < 10 {
		w = 10
	}
	s.width = w
}

// Increase moves the value up one step, reporting whether it changed.
func (s *SliderModel) Increase() bool {
	return s.nudge(s.step)
}

// Decrease moves the value down one step, reporting whether it changed.
func (s *SliderModel) Decrease() bool {
	return s.nudge(-s.step)
}

func (s *SliderModel) nudge(delta float64) bool {
	next := s.clamp(s.value + delta)
	// rounding keeps repeated steps from accumulating float drift
	next = float64(int(next*100+0.5)) / 100
	next = s.clamp(next)
	if next == s.value {
		return false
	}
	s.value = next
	return true
}

func (s SliderModel) clamp(v float64) float64 {
	if v < s.min {
		return s.min
	}
	if v > s.max {
		return s.max
	}
	return v
}

// View renders the slider with its numeric value.
func (s SliderModel) View(focused bool) string {
	t := s.theme

	track := s.width - 2
	if track < 5 {
		track = 5
	}
	frac := (s.value - s.min) / (s.max - s.min)
	filled := int(frac*float64(track) + 0.5)
	if filled > track {
		filled = track
	}

	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", track-filled)

	label := fmt.Sprintf("confidence ≥ %.2f", s.value)
	labelStyle := t.SecondaryText
	if focused {
		labelStyle = t.PrimaryBold
	}
	return labelStyle.Render(label) + "  " + t.MutedText.Render(bar)
}
