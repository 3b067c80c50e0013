package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/san-kum/driftmesh/internal/mesh"
)

// ErrRunNotFound is returned when a run directory or its files are missing.
var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	pointsFile   = "points.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return errors.Wrapf(os.MkdirAll(s.baseDir, 0755), "creating %s", s.baseDir)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Theme      string             `json:"theme"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	PixelRatio float64            `json:"pixel_ratio"`
	Frames     int                `json:"frames"`
	Every      int                `json:"every"`
	Params     mesh.Params        `json:"params"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Frame is one sampled frame: the clock and every point position.
type Frame struct {
	Index  int64      `json:"index"`
	Clock  float64    `json:"clock"`
	Points []r2.Point `json:"points"`
}

// Save writes meta and frames to a new run directory and returns its ID.
// meta.ID and an unset Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, frames []Frame) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	name := meta.Name
	if name == "" {
		name = "run"
	}
	meta.ID = fmt.Sprintf("%s_%s", name, meta.Timestamp.UTC().Format("20060102T150405.000000"))
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", errors.Wrapf(err, "creating run dir %s", runDir)
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writePoints(filepath.Join(runDir, pointsFile), frames); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v interface{}) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return errors.Wrapf(enc.Encode(v), "encoding %s", path)
}

func writePoints(path string, frames []Frame) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"frame", "clock", "index", "x", "y"}); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for _, fr := range frames {
		frame := strconv.FormatInt(fr.Index, 10)
		clock := strconv.FormatFloat(fr.Clock, 'f', 6, 64)
		for i, p := range fr.Points {
			row := []string{
				frame,
				clock,
				strconv.Itoa(i),
				strconv.FormatFloat(p.X, 'f', 3, 64),
				strconv.FormatFloat(p.Y, 'f', 3, 64),
			}
			if err := w.Write(row); err != nil {
				return errors.Wrapf(err, "writing frame %d", fr.Index)
			}
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "flushing points")
}

// List returns the metadata of every run, oldest first. Directories without
// readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, errors.Wrapf(err, "reading %s", s.baseDir)
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, metadataFile)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrRunNotFound, runID)
		}
		return nil, errors.Wrapf(err, "reading %s", metaPath)
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", metaPath)
	}
	return &meta, nil
}

// LoadFrames reads the sampled frames of a run in recorded order.
func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	csvPath := filepath.Join(s.baseDir, runID, pointsFile)
	file, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrRunNotFound, runID)
		}
		return nil, errors.Wrapf(err, "opening %s", csvPath)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 5

	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", csvPath)
	}

	frames := make([]Frame, 0)
	for i := 1; i < len(records); i++ {
		rec := records[i]
		index, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d", csvPath, i+1)
		}
		vals := make([]float64, 3)
		for j, field := range []string{rec[1], rec[3], rec[4]} {
			if vals[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, errors.Wrapf(err, "%s line %d", csvPath, i+1)
			}
		}

		if n := len(frames); n == 0 || frames[n-1].Index != index {
			frames = append(frames, Frame{Index: index, Clock: vals[0]})
		}
		last := &frames[len(frames)-1]
		last.Points = append(last.Points, r2.Point{X: vals[1], Y: vals[2]})
	}
	return frames, nil
}
