package availability

// GenerateSlots returns candidate start minutes open, open+g, ... while < close.
// Starts that fall inside a break are skipped. A closed window yields no slots.
func GenerateSlots(w DayWindow, granularity int) []int {
	if !w.Open || granularity <= 0 {
		return []int{}
	}

	slots := make([]int, 0, (w.End-w.Start)/granularity+1)
	for m := w.Start; m < w.End; m += granularity {
		if inBreak(w.Breaks, m) {
			continue
		}
		slots = append(slots, m)
	}
	return slots
}

func inBreak(breaks []Interval, minute int) bool {
	for _, b := range breaks {
		if minute >= b.Start && minute < b.End {
			return true
		}
	}
	return false
}
