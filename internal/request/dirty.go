package request

import "sync/atomic"

// DirtyFlag is set by completion callbacks and cleared by the UI thread
// after a sweep. It is the only shared state besides slot cells.
type DirtyFlag struct {
	v atomic.Bool
}

func (d *DirtyFlag) Set() {
	d.v.Store(true)
}

func (d *DirtyFlag) Clear() {
	d.v.Store(false)
}

func (d *DirtyFlag) IsSet() bool {
	return d.v.Load()
}
