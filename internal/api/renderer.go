package api

import (
	"sync"
	"worldstats/internal/models"
)

// FrameRecorder is the server side of the renderer: it keeps the latest
// frame of every view for the browser to pick up.
type FrameRecorder struct {
	mu     sync.RWMutex
	frames models.Frames
}

func (r *FrameRecorder) RenderMap(f *models.MapFrame) {
	r.mu.Lock()
	r.frames.Map = f
	r.mu.Unlock()
}

func (r *FrameRecorder) RenderBars(f *models.BarFrame) {
	r.mu.Lock()
	r.frames.Bars = f
	r.mu.Unlock()
}

func (r *FrameRecorder) RenderTrend(f *models.TrendFrame) {
	r.mu.Lock()
	r.frames.Trend = f
	r.mu.Unlock()
}

// Frames returns the latest frames. Frames are never mutated after being
// rendered, so sharing the pointers is safe.
func (r *FrameRecorder) Frames() models.Frames {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frames
}
