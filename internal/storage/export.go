package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

type ExportData struct {
	RunMetadata
	Frames []Frame `json:"frames"`
}

// ExportJSON writes a run as a single JSON document to path.
func ExportJSON(path string, meta RunMetadata, frames []Frame) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteJSON(file, meta, frames)
}

// WriteJSON writes a run as a single JSON document to w.
func WriteJSON(w io.Writer, meta RunMetadata, frames []Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(ExportData{RunMetadata: meta, Frames: frames}), "encoding run")
}
