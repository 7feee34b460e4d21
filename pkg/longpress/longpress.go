// Package longpress is a small gesture-timeout primitive: start a timer
// on press-start, cancel it on press-end or pointer-leave, fire a
// callback when the hold outlasts the delay. It carries no UI-toolkit
// assumptions, so any event source can drive it.
package longpress

import (
	"sync"
	"time"
)

// DefaultDelay matches the hold duration used for message action menus.
const DefaultDelay = 600 * time.Millisecond

// Detector tracks in-flight presses keyed by an opaque target id.
type Detector struct {
	delay time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewDetector(delay time.Duration) *Detector {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Detector{delay: delay, timers: make(map[string]*time.Timer)}
}

// Press starts (or restarts) the hold timer for target. fire runs on its
// own goroutine if the press is still held when the delay elapses.
func (d *Detector) Press(target string, fire func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[target]; ok {
		t.Stop()
	}
	d.timers[target] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, target)
		d.mu.Unlock()
		fire()
	})
}

// Release cancels the pending press for target, if any. Call on press-end
// and on pointer-leave.
func (d *Detector) Release(target string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[target]; ok {
		t.Stop()
		delete(d.timers, target)
	}
}

// Cancel stops every pending press. Call on teardown.
func (d *Detector) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for target, t := range d.timers {
		t.Stop()
		delete(d.timers, target)
	}
}
