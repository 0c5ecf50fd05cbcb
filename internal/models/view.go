package models

import (
	"fmt"
	"strings"
)

// View is one of the dashboard screens.
type View int

const (
	ViewOverview View = iota
	ViewRecordPayment
	ViewRecordExpense
)

var viewNames = [...]string{"overview", "payment", "expense"}

func (v View) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return fmt.Sprintf("View(%d)", int(v))
	}
	return viewNames[v]
}

// ParseView maps a view name to a View.
func ParseView(s string) (View, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range viewNames {
		if n == name {
			return View(i), nil
		}
	}
	return ViewOverview, fmt.Errorf("unknown view %q (want one of %s)", s, strings.Join(viewNames[:], ", "))
}
