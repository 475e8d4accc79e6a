package analysis

import (
	"context"
	"net/http"
	"time"

	"github.com/tphakala/smartwaste/internal/classifier"
	"github.com/tphakala/smartwaste/internal/conf"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/logger"
	"github.com/tphakala/smartwaste/internal/taxonomy"
)

const modelDownloadTimeout = 10 * time.Minute

// LoadClassifier makes sure the model file is present, loads it and wraps it
// with the configured labels. Any failure here is fatal for the caller.
func LoadClassifier(ctx context.Context, settings *conf.Settings, recorder classifier.Recorder) (*classifier.Classifier, time.Duration, error) {
	start := time.Now()

	if err := taxonomy.Validate(); err != nil {
		return nil, 0, err
	}

	modelPath, err := conf.GetBasePath(settings.Model.Path)
	if err != nil {
		return nil, 0, err
	}

	src := &classifier.ArtifactSource{
		Path:   modelPath,
		URL:    settings.Model.URL,
		Client: &http.Client{Timeout: modelDownloadTimeout},
	}
	path, err := src.Ensure(ctx)
	if err != nil {
		return nil, 0, errors.New(err).
			Component("analysis").
			Category(errors.CategoryModelLoad).
			Context("operation", "ensure-model").
			Build()
	}

	model, err := classifier.LoadTFLite(path, settings.Model.Threads, settings.Model.UseXNNPACK)
	if err != nil {
		return nil, 0, err
	}
	if err := checkInputSize(model, settings.Model.InputSize); err != nil {
		_ = model.Close()
		return nil, 0, err
	}

	labels := make([]taxonomy.Class, 0, len(settings.Model.Labels))
	for _, l := range settings.Model.Labels {
		labels = append(labels, taxonomy.Class(l))
	}

	var opts []classifier.Option
	if recorder != nil {
		opts = append(opts, classifier.WithRecorder(recorder))
	}
	c, err := classifier.New(model, labels, opts...)
	if err != nil {
		_ = model.Close()
		return nil, 0, err
	}

	elapsed := time.Since(start)
	GetLogger().Info("classifier ready",
		logger.String("model", path),
		logger.Int("labels", len(c.Labels())),
		logger.Duration("load_time", elapsed))
	return c, elapsed, nil
}

// checkInputSize rejects a model whose input is not the configured square
// edge. A size of 0 accepts whatever the model declares.
func checkInputSize(model classifier.Inferrer, want int) error {
	if want <= 0 {
		return nil
	}
	h, w := model.InputSize()
	if h == want && w == want {
		return nil
	}
	return errors.Newf("model input is %dx%d, configured model.inputsize is %d", w, h, want).
		Component("analysis").
		Category(errors.CategoryModelInit).
		Context("input_height", h).
		Context("input_width", w).
		Build()
}
