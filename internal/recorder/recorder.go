// internal/recorder/recorder.go
package recorder

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/tcm-controller/internal/logger"
	"github.com/tamzrod/tcm-controller/internal/tcm"
)

// ErrRecording is returned by Start while a file is open.
var ErrRecording = errors.New("recorder: already recording")

type Config struct {
	Log *logrus.Logger
	// Dir receives recordings. Empty means the working directory.
	Dir string
}

// Recorder writes samples to a CSV file between Start and Stop.
// Samples written while stopped are dropped.
type Recorder struct {
	dir string
	now func() time.Time
	log *logrus.Entry

	mu   sync.Mutex
	f    *os.File
	w    *csv.Writer
	path string
	rows int
}

func New(cfg Config) (*Recorder, error) {
	if cfg.Log == nil {
		cfg.Log = logger.Discard()
	}
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, errors.Annotatef(err, "recorder: create %s", cfg.Dir)
		}
	}

	return &Recorder{
		dir: cfg.Dir,
		now: time.Now,
		log: cfg.Log.WithFields(logrus.Fields{
			"module": "recorder",
			"scope":  "csv",
		}),
	}, nil
}

// Start opens a new file and writes the header. It returns the file path.
func (r *Recorder) Start() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.f != nil {
		return r.path, ErrRecording
	}

	path := filepath.Join(r.dir, r.now().Format(FilePattern))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Annotate(err, "recorder: open")
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return "", errors.Annotate(err, "recorder: header")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return "", errors.Annotate(err, "recorder: header")
	}

	r.f, r.w, r.path, r.rows = f, w, path, 0
	r.log.Infof("recording to %s", path)
	return path, nil
}

// Write appends one row and flushes it.
func (r *Recorder) Write(s Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.w == nil {
		return nil
	}

	r.w.Write([]string{
		s.At.Format(TimeLayout),
		tcm.FormatTemperature(s.Actual),
		tcm.FormatTemperature(s.Target),
	})
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return errors.Annotatef(err, "recorder: write %s", r.path)
	}
	r.rows++
	return nil
}

// Stop closes the current file. It is a no-op when not recording.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.f == nil {
		return nil
	}

	r.w.Flush()
	werr := r.w.Error()
	cerr := r.f.Close()

	r.log.Infof("stopped recording %s (%d rows)", r.path, r.rows)
	r.f, r.w, r.path = nil, nil, ""

	if werr != nil {
		return errors.Trace(werr)
	}
	return errors.Trace(cerr)
}

// Recording reports whether a file is open.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.f != nil
}

// Path is the current file, or "" when stopped.
func (r *Recorder) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}
