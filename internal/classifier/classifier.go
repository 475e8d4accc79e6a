// Package classifier runs the waste image classification model: it resizes
// and normalizes an uploaded image, invokes the model once and maps the
// highest scoring output to a waste class.
package classifier

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/logger"
	"github.com/tphakala/smartwaste/internal/taxonomy"
)

// Inferrer is a loaded model that maps one NHWC float32 input tensor to a
// vector of class scores. Implementations need not be safe for concurrent use.
type Inferrer interface {
	// InputSize returns the expected input height and width in pixels.
	InputSize() (height, width int)
	// OutputSize returns the number of class scores produced.
	OutputSize() int
	// Infer runs the model on input, laid out as (1, height, width, 3).
	Infer(input []float32) ([]float32, error)
	// Close releases the model.
	Close() error
}

// Recorder receives inference telemetry. The metrics package implements it.
type Recorder interface {
	RecordInference(duration time.Duration, class string, err error)
}

// Outcome is the result of classifying one image.
type Outcome struct {
	Class      taxonomy.Class
	Index      int
	Confidence float32
	Duration   time.Duration
}

// Classifier pairs a model with its label vocabulary. The model is shared
// read-only between sessions; calls to Infer are serialized.
type Classifier struct {
	model    Inferrer
	labels   []taxonomy.Class
	recorder Recorder
	mu       sync.Mutex
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRecorder sets the telemetry recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Classifier) { c.recorder = r }
}

// New wraps model with labels given in model output order. The number of
// labels must match the model output size.
func New(model Inferrer, labels []taxonomy.Class, opts ...Option) (*Classifier, error) {
	if model == nil {
		return nil, errors.Newf("classifier model is nil").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Build()
	}
	if len(labels) == 0 {
		labels = taxonomy.Classes()
	}
	if out := model.OutputSize(); out != len(labels) {
		return nil, errors.Newf("label count mismatch: model has %d outputs, %d labels configured", out, len(labels)).
			Component("classifier").
			Category(errors.CategoryLabelLoad).
			Context("model_outputs", out).
			Context("labels", len(labels)).
			Build()
	}

	c := &Classifier{
		model:  model,
		labels: labels,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Labels returns the label vocabulary in output order.
func (c *Classifier) Labels() []taxonomy.Class {
	return append([]taxonomy.Class(nil), c.labels...)
}

// Classify predicts the waste class of img. The image is resized to the model
// input, inference runs once and the highest score wins, with ties going to
// the lowest index.
func (c *Classifier) Classify(ctx context.Context, img image.Image) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if img == nil || img.Bounds().Empty() {
		return Outcome{}, errors.Newf("image is empty").
			Component("classifier").
			Category(errors.CategoryValidation).
			Build()
	}

	start := time.Now()
	h, w := c.model.InputSize()
	input := ToTensor(img, w, h)

	c.mu.Lock()
	scores, err := c.model.Infer(input)
	c.mu.Unlock()

	elapsed := time.Since(start)
	if err != nil {
		err = errors.New(err).
			Component("classifier").
			Category(errors.CategoryInference).
			Timing("classify", elapsed).
			Build()
		c.record(elapsed, "", err)
		return Outcome{}, err
	}

	idx, score := Argmax(scores)
	if idx < 0 || idx >= len(c.labels) {
		err = errors.Newf("model returned %d scores for %d labels", len(scores), len(c.labels)).
			Component("classifier").
			Category(errors.CategoryInference).
			Build()
		c.record(elapsed, "", err)
		return Outcome{}, err
	}

	out := Outcome{
		Class:      c.labels[idx],
		Index:      idx,
		Confidence: score,
		Duration:   elapsed,
	}
	c.record(elapsed, string(out.Class), nil)

	GetLogger().Debug("image classified",
		logger.String("class", string(out.Class)),
		logger.Float32("confidence", out.Confidence),
		logger.Duration("duration", elapsed))

	return out, nil
}

func (c *Classifier) record(d time.Duration, class string, err error) {
	if c.recorder != nil {
		c.recorder.RecordInference(d, class, err)
	}
}

// Close releases the underlying model.
func (c *Classifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model.Close()
}
