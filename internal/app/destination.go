package app

import (
	"path/filepath"
	"time"

	"fextract/internal/domain"
)

// RangeLayout is fixed width so folder names sort chronologically.
const RangeLayout = "2006-01-02_15-04-05.000"

// DestinationResolver maps a source-relative path to its copy target
// under <root>/<output>/<start> & <end>/.
type DestinationResolver struct {
	base   string
	folder string
}

func NewDestinationResolver(req domain.ExtractionRequest) (DestinationResolver, error) {
	root := req.Root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return DestinationResolver{}, err
	}
	folder := RangeFolder(req.RangeStart, req.RangeEnd)
	return DestinationResolver{
		base:   filepath.Join(abs, filepath.FromSlash(req.OutputDir), folder),
		folder: folder,
	}, nil
}

func RangeFolder(start, end time.Time) string {
	return start.Format(RangeLayout) + " & " + end.Format(RangeLayout)
}

// Folder is the range folder name shared by every file of the run.
func (r DestinationResolver) Folder() string {
	return r.folder
}

// Base is the absolute directory all matched files are copied into.
func (r DestinationResolver) Base() string {
	return r.base
}

func (r DestinationResolver) Resolve(file string) string {
	return filepath.Join(r.base, filepath.FromSlash(file))
}
