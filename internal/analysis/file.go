package analysis

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/tphakala/smartwaste/internal/classifier"
	"github.com/tphakala/smartwaste/internal/errors"
	"github.com/tphakala/smartwaste/internal/recommend"
	"github.com/tphakala/smartwaste/internal/session"
)

// FileResult is the classification of one image file.
type FileResult struct {
	Path    string
	Outcome classifier.Outcome
	recommend.Result
}

// ClassifyFile decodes the image at path and resolves its recommendation.
func ClassifyFile(ctx context.Context, predictor session.Predictor, path string) (FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileResult{}, errors.New(err).
			Component("analysis").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	defer func() { _ = f.Close() }()

	img, _, err := classifier.DecodeUpload(f)
	if err != nil {
		return FileResult{}, err
	}

	out, err := predictor.Classify(ctx, img)
	if err != nil {
		return FileResult{}, err
	}
	return FileResult{Path: path, Outcome: out, Result: recommend.Resolve(out.Class)}, nil
}

// WriteResults prints results as an aligned table.
func WriteResults(w io.Writer, results []FileResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tCLASS\tCATEGORY\tMETHOD\tCONFIDENCE")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f%%\n",
			r.Path, r.Class, r.Category, r.Method, r.Outcome.Confidence*100)
	}
	return tw.Flush()
}
