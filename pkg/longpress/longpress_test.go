package longpress

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPressFiresAfterDelay(t *testing.T) {
	d := NewDetector(20 * time.Millisecond)
	var fired atomic.Int32

	d.Press("m1", func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, 5*time.Millisecond)
}

func TestReleaseBeforeDelayCancels(t *testing.T) {
	d := NewDetector(50 * time.Millisecond)
	var fired atomic.Int32

	d.Press("m1", func() { fired.Add(1) })
	d.Release("m1")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestRepressRestartsTimer(t *testing.T) {
	d := NewDetector(60 * time.Millisecond)
	var fired atomic.Int32

	d.Press("m1", func() { fired.Add(1) })
	time.Sleep(30 * time.Millisecond)
	d.Press("m1", func() { fired.Add(1) })
	time.Sleep(40 * time.Millisecond)
	// 70ms since the first press but only 40ms since the restart.
	assert.Equal(t, int32(0), fired.Load())

	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, 5*time.Millisecond)
}

func TestCancelStopsEveryPress(t *testing.T) {
	d := NewDetector(50 * time.Millisecond)
	var fired atomic.Int32

	d.Press("m1", func() { fired.Add(1) })
	d.Press("m2", func() { fired.Add(1) })
	d.Cancel()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestIndependentTargets(t *testing.T) {
	d := NewDetector(20 * time.Millisecond)
	var m1, m2 atomic.Int32

	d.Press("m1", func() { m1.Add(1) })
	d.Press("m2", func() { m2.Add(1) })
	d.Release("m1")

	assert.Eventually(t, func() bool { return m2.Load() == 1 },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), m1.Load())
}
