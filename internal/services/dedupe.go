package services

// DedupeFilter remembers the last raw token handed to the pipeline so a code
// that stays in front of the camera is processed once. Blank frames do not
// clear the slot: the same code is only processed again after a different
// code has been seen in between.
type DedupeFilter struct {
	last string
}

// NewDedupeFilter creates an empty filter.
func NewDedupeFilter() *DedupeFilter {
	return &DedupeFilter{}
}

// ShouldProcess reports whether raw differs from the last admitted token and
// admits it if so.
func (f *DedupeFilter) ShouldProcess(raw string) bool {
	if raw == f.last {
		return false
	}
	f.last = raw
	return true
}

func (f *DedupeFilter) Last() string {
	return f.last
}
