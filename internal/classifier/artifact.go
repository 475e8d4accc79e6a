package classifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/logger"
)

// ArtifactSource makes the model file available locally, downloading it once
// from URL when Path does not exist yet.
type ArtifactSource struct {
	Path   string
	URL    string
	Client *http.Client
}

// Ensure returns the local model path. An existing file is used as is; the
// download only happens when no cached copy exists.
func (a *ArtifactSource) Ensure(ctx context.Context) (string, error) {
	if info, err := os.Stat(a.Path); err == nil && info.Size() > 0 {
		GetLogger().Debug("using cached model", logger.String("path", a.Path))
		return a.Path, nil
	}

	if a.URL == "" {
		return "", errors.Newf("model file %s not found and no download url configured", a.Path).
			Component("classifier").
			Category(errors.CategoryModelLoad).
			Build()
	}

	start := time.Now()
	n, err := a.download(ctx)
	if err != nil {
		return "", errors.New(err).
			Component("classifier").
			Category(errors.CategoryNetwork).
			Context("operation", "model-download").
			Timing("model-download", time.Since(start)).
			Build()
	}

	GetLogger().Info("model downloaded",
		logger.String("path", a.Path),
		logger.Int64("bytes", n),
		logger.Duration("duration", time.Since(start)))
	return a.Path, nil
}

// download writes the artifact to a temporary file next to Path and renames
// it into place so an interrupted download never leaves a partial model.
func (a *ArtifactSource) download(ctx context.Context) (int64, error) {
	client := a.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Minute}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download model: unexpected status %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(a.Path), 0o755); err != nil {
		return 0, fmt.Errorf("create model directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(a.Path), ".model-*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write model: %w", err)
	}
	if n == 0 {
		return 0, fmt.Errorf("download model: empty response body")
	}

	if err := os.Rename(tmp.Name(), a.Path); err != nil {
		return 0, fmt.Errorf("move model into place: %w", err)
	}
	return n, nil
}
