package pipeline

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"image-processing-steps/internal/core"
)

// debugPipeline times named steps and logs raster stats. Everything is
// skipped unless the logger is at debug level.
type debugPipeline struct {
	logger  *logrus.Logger
	mu      sync.Mutex
	timings map[string]time.Time
}

func newDebugPipeline(logger *logrus.Logger) *debugPipeline {
	return &debugPipeline{
		logger:  logger,
		timings: make(map[string]time.Time),
	}
}

func (d *debugPipeline) enabled() bool {
	return d.logger.IsLevelEnabled(logrus.DebugLevel)
}

func (d *debugPipeline) StartTimer(operation string) {
	if !d.enabled() {
		return
	}
	d.mu.Lock()
	d.timings[operation] = time.Now()
	d.mu.Unlock()
}

func (d *debugPipeline) EndTimer(operation string) time.Duration {
	if !d.enabled() {
		return 0
	}

	d.mu.Lock()
	startTime, exists := d.timings[operation]
	delete(d.timings, operation)
	d.mu.Unlock()

	if !exists {
		return 0
	}
	return time.Since(startTime)
}

func (d *debugPipeline) LogImageStats(name string, meta core.Metadata) {
	if !d.enabled() {
		return
	}
	d.logger.WithFields(logrus.Fields{
		"image":    name,
		"width":    meta.Width,
		"height":   meta.Height,
		"channels": meta.Channels,
		"type":     int(meta.Type),
	}).Debug("PIPELINE: image stats")
}

func (d *debugPipeline) LogOperationApplied(key string, meta core.Metadata, duration time.Duration) {
	if !d.enabled() {
		return
	}
	d.logger.WithFields(logrus.Fields{
		"operation": key,
		"width":     meta.Width,
		"height":    meta.Height,
		"channels":  meta.Channels,
		"duration":  duration,
	}).Debug("PIPELINE: operation applied")
}
