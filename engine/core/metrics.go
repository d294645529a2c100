package core

const AVG_COUNT uint8 = 30

// Metrics keeps a rolling frame time average, frames per second and the number
// of ticks that had to wait for the GPU before reusing a frame slot.
type Metrics struct {
	frameAVGCounter    uint8
	msTimes            [AVG_COUNT]float64
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
	stalls             uint64
	stallsLastSecond   uint64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Update records one frame and reports whether a full second has been
// accumulated since the last report.
func (m *Metrics) Update(frameElapsedSeconds float64) bool {
	frame_ms := frameElapsedSeconds * 1000.0
	m.msTimes[m.frameAVGCounter] = frame_ms
	if m.frameAVGCounter == AVG_COUNT-1 {
		sum := 0.0
		for i := uint8(0); i < AVG_COUNT; i++ {
			sum += m.msTimes[i]
		}
		m.msAvg = sum / float64(AVG_COUNT)
	}
	m.frameAVGCounter++
	m.frameAVGCounter %= AVG_COUNT

	m.frames++
	m.accumulatedFrameMS += frame_ms
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
		m.stallsLastSecond = 0
		return true
	}
	return false
}

// RecordStall counts a blocking wait on a frame slot.
func (m *Metrics) RecordStall() {
	m.stalls++
	m.stallsLastSecond++
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

// FrameTime is the average frame time in milliseconds over the last AVG_COUNT frames.
func (m *Metrics) FrameTime() float64 {
	return m.msAvg
}

func (m *Metrics) Stalls() uint64 {
	return m.stalls
}
