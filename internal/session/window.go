// Package session holds per-viewer UI state: the visible window over a
// view and the post that a dialog is currently about.
package session

const (
	// DefaultPostWindow is the initial number of posts shown.
	DefaultPostWindow = 3
	// DefaultResourceWindow is the initial number of catalog resources shown.
	DefaultResourceWindow = 5
	// DefaultStep is how many items each load-more adds.
	DefaultStep = 3
)

// Window counts how many view items are materialised. It only grows
// unless Reset is called explicitly; filter changes never shrink it.
type Window struct {
	initial int
	size    int
	step    int
}

// NewWindow builds a window; non-positive arguments fall back to defaults.
func NewWindow(initial, step int) Window {
	if initial <= 0 {
		initial = DefaultPostWindow
	}
	if step <= 0 {
		step = DefaultStep
	}
	return Window{initial: initial, size: initial, step: step}
}

// Size is the current window size.
func (w Window) Size() int { return w.size }

// Step is the fixed load-more increment.
func (w Window) Step() int { return w.step }

// LoadMore grows the window by one step and returns the new size.
func (w *Window) LoadMore() int {
	w.size += w.step
	return w.size
}

// Reset restores the initial size.
func (w *Window) Reset() {
	w.size = w.initial
}

// Visible is how many of total items fit in the window.
func (w Window) Visible(total int) int {
	if total < w.size {
		return total
	}
	return w.size
}

// HasMore reports whether items remain beyond the window.
func (w Window) HasMore(total int) bool {
	return w.size < total
}
