package export

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// FileExtension is appended to every stored report.
const FileExtension = ".xlsx"

var ErrEmptyFileName = errors.New("file name is required")

// Document is anything that can write itself to a path. *excelize.File satisfies it.
type Document interface {
	SaveAs(name string, opts ...excelize.Options) error
}

// CancelFunc stops a pending deletion. It reports whether the deletion was
// still pending.
type CancelFunc func() bool

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) CancelFunc
}

type timerScheduler struct{}

// TimerScheduler schedules with time.AfterFunc.
func TimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) AfterFunc(d time.Duration, f func()) CancelFunc {
	return time.AfterFunc(d, f).Stop
}

// StoredFile describes a saved report. Name has no extension.
type StoredFile struct {
	Name      string
	Path      string
	ExpiresAt time.Time
}

// FileStore writes documents into one directory and removes each after ttl.
// Saving a name that already has a pending deletion re-arms it.
type FileStore struct {
	dir       string
	ttl       time.Duration
	scheduler Scheduler
	now       func() time.Time

	mu      sync.Mutex
	pending map[string]*pendingDeletion
}

type pendingDeletion struct {
	cancel CancelFunc
}

func NewFileStore(dir string, ttl time.Duration, scheduler Scheduler) *FileStore {
	if scheduler == nil {
		scheduler = TimerScheduler()
	}
	return &FileStore{
		dir:       dir,
		ttl:       ttl,
		scheduler: scheduler,
		now:       time.Now,
		pending:   make(map[string]*pendingDeletion),
	}
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) TTL() time.Duration {
	return s.ttl
}

// Save writes doc to dir/name.xlsx and arms its deletion. Writes and
// scheduled removals are serialized, so an expiring timer never deletes a
// freshly saved file of the same name.
func (s *FileStore) Save(name string, doc Document) (StoredFile, error) {
	if name == "" {
		return StoredFile{}, ErrEmptyFileName
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(name)
	if err := doc.SaveAs(path); err != nil {
		return StoredFile{}, fmt.Errorf("failed to write report file: %w", err)
	}

	s.scheduleLocked(name, path)

	return StoredFile{
		Name:      name,
		Path:      path,
		ExpiresAt: s.now().Add(s.ttl),
	}, nil
}

// Path is the location a report with this name is stored at.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name+FileExtension)
}

// Cancel drops the pending deletion for name, leaving the file in place.
func (s *FileStore) Cancel(name string) bool {
	s.mu.Lock()
	p, ok := s.pending[name]
	delete(s.pending, name)
	s.mu.Unlock()

	if !ok {
		return false
	}
	return p.cancel()
}

// Pending reports whether name has a deletion armed.
func (s *FileStore) Pending(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[name]
	return ok
}

// PendingCount is the number of files waiting for deletion.
func (s *FileStore) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *FileStore) scheduleLocked(name, path string) {
	if previous, ok := s.pending[name]; ok {
		previous.cancel()
	}

	p := &pendingDeletion{}
	p.cancel = s.scheduler.AfterFunc(s.ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		// a later Save replaced this entry and owns the file now
		if s.pending[name] != p {
			return
		}
		delete(s.pending, name)
		removeFile(path)
	})
	s.pending[name] = p
}

func removeFile(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to delete expired report",
			"path", path,
			"error", err)
		return
	}
	slog.Debug("expired report deleted", "path", path)
}

// SanitizeFileName builds "{userName}_{reportType}" with spaces and path
// separators replaced by underscores.
func SanitizeFileName(userName, reportType string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_", `\`, "_")
	return replacer.Replace(userName) + "_" + reportType
}
