// Fixed sequence of image operations applied to one source image
package algorithms

import (
	"fmt"

	"gocv.io/x/gocv"

	"image-processing-steps/internal/core"
)

// Operation is one named transformation of a source image. Apply reads the
// source and returns a freshly allocated Mat owned by the caller; it never
// writes to the source or depends on another operation's output.
type Operation interface {
	Key() string
	Label() string
	Description() string
	Apply(src *core.SourceImage) (gocv.Mat, error)
}

var (
	operations = make(map[string]Operation)
	order      []string
)

// Register appends an operation to the sequence. Registering a key twice panics.
func Register(op Operation) {
	if _, exists := operations[op.Key()]; exists {
		panic(fmt.Sprintf("algorithms: operation %q registered twice", op.Key()))
	}
	operations[op.Key()] = op
	order = append(order, op.Key())
}

// Sequence returns the operations in navigation order.
func Sequence() []Operation {
	result := make([]Operation, 0, len(order))
	for _, key := range order {
		result = append(result, operations[key])
	}
	return result
}

// Labels returns the display label of every operation in navigation order.
func Labels() []string {
	labels := make([]string, 0, len(order))
	for _, key := range order {
		labels = append(labels, operations[key].Label())
	}
	return labels
}

func Apply(key string, src *core.SourceImage) (gocv.Mat, error) {
	op, exists := operations[key]
	if !exists {
		return gocv.NewMat(), fmt.Errorf("operation not found: %s", key)
	}
	return op.Apply(src)
}

// run allocates the output Mat, lets fn fill it and turns OpenCV panics and
// empty results into errors.
func run(name string, src *core.SourceImage, fn func(dst *gocv.Mat)) (out gocv.Mat, err error) {
	if src == nil || src.Width() == 0 {
		return gocv.NewMat(), fmt.Errorf("%s: source image is empty", name)
	}

	out = gocv.NewMat()
	defer func() {
		if r := recover(); r != nil {
			out.Close()
			out = gocv.NewMat()
			err = fmt.Errorf("panic in %s: %v", name, r)
		}
	}()

	fn(&out)
	if out.Empty() {
		out.Close()
		return gocv.NewMat(), fmt.Errorf("%s returned empty result", name)
	}
	return out, nil
}

func init() {
	Register(NewOriginal())
	Register(NewGrayscale())
	Register(NewResize())
	Register(NewGaussianFilter())
	Register(NewCannyEdges())
	Register(NewBinaryThreshold())
	Register(NewHistogramEqualization())
	Register(NewRotation())
}
