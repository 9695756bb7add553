// Package pipeline decodes an upload once and computes every step result.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"image-processing-steps/internal/algorithms"
	"image-processing-steps/internal/core"
)

// Builder turns raw upload bytes into Results. A Builder has no per-upload
// state and can be reused.
type Builder struct {
	operations []algorithms.Operation
	logger     *logrus.Logger
	debug      *debugPipeline
}

// NewBuilder returns a builder running the registered operation sequence.
func NewBuilder(logger *logrus.Logger) *Builder {
	return NewBuilderWithOperations(logger, algorithms.Sequence())
}

func NewBuilderWithOperations(logger *logrus.Logger, operations []algorithms.Operation) *Builder {
	return &Builder{
		operations: operations,
		logger:     logger,
		debug:      newDebugPipeline(logger),
	}
}

func (b *Builder) Operations() []algorithms.Operation {
	out := make([]algorithms.Operation, len(b.operations))
	copy(out, b.operations)
	return out
}

// Build decodes data and applies every operation to the decoded source. It
// either returns all entries or none: any decode failure is a
// *core.DecodeError, any operation failure releases what was computed so far.
func (b *Builder) Build(data []byte) (*Results, error) {
	if len(b.operations) == 0 {
		return nil, errors.New("pipeline has no operations")
	}

	start := time.Now()
	b.debug.StartTimer("decode")
	src, err := core.DecodeSource(data)
	decodeDuration := b.debug.EndTimer("decode")
	if err != nil {
		b.logger.WithFields(logrus.Fields{
			"bytes": len(data),
			"error": err,
		}).Warn("PIPELINE: decode failed")
		return nil, err
	}
	b.debug.LogImageStats("source", src.Metadata())
	b.debug.LogOperationApplied("decode", src.Metadata(), decodeDuration)

	entries := make([]Entry, len(b.operations))
	done := make([]bool, len(b.operations))

	var g errgroup.Group
	for i, op := range b.operations {
		g.Go(func() error {
			b.debug.StartTimer(op.Key())
			mat, err := op.Apply(src)
			duration := b.debug.EndTimer(op.Key())
			if err != nil {
				mat.Close()
				return fmt.Errorf("operation %s: %w", op.Key(), err)
			}

			entries[i] = Entry{
				Key:         op.Key(),
				Label:       op.Label(),
				Description: op.Description(),
				Image:       mat,
			}
			done[i] = true
			b.debug.LogOperationApplied(op.Key(), core.MetadataOf(mat), duration)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for i := range entries {
			if done[i] {
				entries[i].Image.Close()
			}
		}
		src.Close()
		b.logger.WithError(err).Error("PIPELINE: build failed")
		return nil, err
	}

	meta := src.Metadata()
	b.logger.WithFields(logrus.Fields{
		"width":      meta.Width,
		"height":     meta.Height,
		"operations": len(entries),
		"duration":   time.Since(start),
	}).Info("PIPELINE: results built")

	return &Results{source: src, entries: entries}, nil
}
