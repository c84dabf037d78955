package array

// Slice is a start:stop:step expression along one axis, resolved against the
// axis extent at indexing time. The zero value selects the full axis.
//
// Conventions: Step == 0 means 1. Negative Start/Stop count back from the
// end. Start == 0 with negative Step means the last element. Stop == 0 means
// "the end" for positive Step and "past the beginning" for negative Step.
// Out-of-range values are clamped, never errors, like Python slices.
type Slice struct {
	Start int
	Stop  int
	Step  int
}

// StepOr1 is the effective increment.
func (sl Slice) StepOr1() int {
	if sl.Step == 0 {
		return 1
	}
	return sl.Step
}

// StartFor is the effective start for an axis of the given size.
func (sl Slice) StartFor(size int) int {
	step := sl.StepOr1()
	start := sl.Start
	if start == 0 && step < 0 {
		start = size - 1
	} else if start < 0 {
		start += size
	}
	if start < 0 {
		if step < 0 {
			return -1
		}
		return 0
	}
	if start >= size {
		if step < 0 {
			return size - 1
		}
		return size
	}
	return start
}

// StopFor is the effective (exclusive) stop for an axis of the given size.
func (sl Slice) StopFor(size int) int {
	step := sl.StepOr1()
	stop := sl.Stop
	if stop == 0 {
		if step < 0 {
			return -1
		}
		return size
	}
	if stop < 0 {
		stop += size
	}
	if stop < 0 {
		if step < 0 {
			return -1
		}
		return 0
	}
	if stop >= size {
		if step < 0 {
			return size - 1
		}
		return size
	}
	return stop
}

// LenFor is the number of selected elements for an axis of the given size.
func (sl Slice) LenFor(size int) int {
	start := sl.StartFor(size)
	stop := sl.StopFor(size)
	step := sl.StepOr1()
	if step > 0 {
		if stop <= start {
			return 0
		}
		return (stop - start + step - 1) / step
	}
	if stop >= start {
		return 0
	}
	return (start - stop - step - 1) / -step
}
