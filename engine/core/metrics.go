package core

import "github.com/tpalli/Vulkan/engine/containers"

const frameWindowSize = 30

// Metrics keeps a rolling average of frame times plus a frames-per-second
// counter. The engine owns one and feeds it every frame.
type Metrics struct {
	window    *containers.RingQueue[float64]
	windowSum float64

	frames          int32
	accumulatedMS   float64
	framesPerSecond float64
}

func NewMetrics() *Metrics {
	return &Metrics{
		window: containers.NewRingQueue[float64](frameWindowSize),
	}
}

// Update records one frame. frameElapsedTime is in seconds.
func (m *Metrics) Update(frameElapsedTime float64) {
	frameMS := frameElapsedTime * 1000.0

	if m.window.IsFull() {
		oldest, _ := m.window.Dequeue()
		m.windowSum -= oldest
	}
	// Cannot fail: the queue was drained above if it was full.
	_ = m.window.Enqueue(frameMS)
	m.windowSum += frameMS

	m.accumulatedMS += frameMS
	if m.accumulatedMS > 1000 {
		m.framesPerSecond = float64(m.frames)
		m.accumulatedMS -= 1000
		m.frames = 0
	}
	m.frames++
}

func (m *Metrics) FPS() float64 {
	return m.framesPerSecond
}

// FrameTime returns the average frame time in milliseconds over the last
// frameWindowSize frames.
func (m *Metrics) FrameTime() float64 {
	if m.window.IsEmpty() {
		return 0
	}
	return m.windowSum / float64(m.window.Len())
}
