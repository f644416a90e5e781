package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const dateLayout = "2006-01-02"

// dailyFile appends to <dir>/<date>.log, switching files when the UTC date
// changes and pruning expired files once per day.
type dailyFile struct {
	dir       string
	retention int

	mu        sync.Mutex
	date      string
	file      *os.File
	lastPrune string
}

func newDailyFile(dir string, retention int) *dailyFile {
	return &dailyFile{dir: dir, retention: retention}
}

func (d *dailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	today := now().UTC().Format(dateLayout)
	if d.file == nil || d.date != today {
		if err := d.rotate(today); err != nil {
			return 0, err
		}
	}
	if d.lastPrune != today {
		d.lastPrune = today
		d.prune(today)
	}
	return d.file.Write(p)
}

func (d *dailyFile) rotate(date string) error {
	if d.file != nil {
		_ = d.file.Close()
		d.file = nil
	}
	if err := os.MkdirAll(d.dir, 0750); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(d.pathFor(date), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	d.file = file
	d.date = date
	return nil
}

// Path returns today's file path.
func (d *dailyFile) Path() string {
	return d.pathFor(now().UTC().Format(dateLayout))
}

func (d *dailyFile) pathFor(date string) string {
	return filepath.Join(d.dir, date+".log")
}

func (d *dailyFile) pruneOldLogs() {
	d.mu.Lock()
	defer d.mu.Unlock()
	today := now().UTC().Format(dateLayout)
	d.lastPrune = today
	d.prune(today)
}

// prune removes dated log files older than the retention window. Files whose
// names are not dates are left alone.
func (d *dailyFile) prune(today string) {
	day, err := time.Parse(dateLayout, today)
	if err != nil {
		return
	}
	cutoff := day.AddDate(0, 0, -(d.retention - 1)).Format(dateLayout)

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".log" {
			continue
		}
		stem := strings.TrimSuffix(name, ".log")
		if !isDate(stem) {
			continue
		}
		if stem < cutoff {
			_ = os.Remove(filepath.Join(d.dir, name))
		}
	}
}

func (d *dailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	d.date = ""
	return err
}

func isDate(value string) bool {
	if len(value) != len(dateLayout) {
		return false
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if i == 4 || i == 7 {
			if c != '-' {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
