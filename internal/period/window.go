package period

import (
	"errors"
	"time"
)

// ErrEmptyWindow is returned when a window ends before it starts.
var ErrEmptyWindow = errors.New("period window is empty")

// Window is the configured, inclusive range of periods.
type Window struct {
	Start Period
	End   Period
}

// NewWindow validates and returns a window.
func NewWindow(start, end Period) (Window, error) {
	if end.Before(start) {
		return Window{}, ErrEmptyWindow
	}
	return Window{Start: start, End: end}, nil
}

// Periods lists every period of the window in order.
func (w Window) Periods() []Period {
	if w.End.Before(w.Start) {
		return nil
	}
	n := w.End.index() - w.Start.index() + 1
	periods := make([]Period, n)
	for i := range periods {
		periods[i] = w.Start.Add(i)
	}
	return periods
}

// Contains reports whether p lies inside the window.
func (w Window) Contains(p Period) bool {
	return !p.Before(w.Start) && !w.End.Before(p)
}

// Default picks the period to preselect for today: the first period when
// today precedes the window, the period at today's offset from the window
// start otherwise, clamped to the last one. It has no side effects.
func Default(today time.Time, periods []Period) (Period, bool) {
	if len(periods) == 0 {
		return Period{}, false
	}
	offset := Of(today).index() - periods[0].index()
	switch {
	case offset < 0:
		return periods[0], true
	case offset >= len(periods):
		return periods[len(periods)-1], true
	default:
		return periods[offset], true
	}
}

// Default picks the window's default period for today.
func (w Window) Default(today time.Time) Period {
	p, ok := Default(today, w.Periods())
	if !ok {
		return w.Start
	}
	return p
}
