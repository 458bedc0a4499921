package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Rotation policy for skylark.log. A softphone session window logs
// little; the caps mostly protect against a chatty camera pipeline
// left at debug level.
const (
	logFileName   = "skylark.log"
	logMaxBytes   = 10 * 1024 * 1024
	logMaxBackups = 5
	logMaxAge     = 30 * 24 * time.Hour
)

// LogRotator is an io.Writer that rotates skylark.log by size,
// gzip-compresses rotated files, and prunes backups by count and age.
type LogRotator struct {
	mu          sync.Mutex
	dir         string
	currentFile *os.File
	currentSize int64
}

// NewLogRotator opens (or creates) skylark.log under dir.
func NewLogRotator(dir string) (*LogRotator, error) {
	r := &LogRotator{dir: dir}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *LogRotator) open() error {
	path := filepath.Join(r.dir, logFileName)
	if info, err := os.Stat(path); err == nil {
		r.currentSize = info.Size()
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	r.currentFile = file
	return nil
}

func (r *LogRotator) Write(p []byte) (n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentFile == nil {
		if err := r.open(); err != nil {
			return 0, err
		}
	}
	if r.currentSize+int64(len(p)) > logMaxBytes {
		if err := r.rotate(); err != nil {
			return 0, err
		}
	}

	n, err = r.currentFile.Write(p)
	r.currentSize += int64(n)
	return n, err
}

func (r *LogRotator) rotate() error {
	if r.currentFile != nil {
		if err := r.currentFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close current log file: %v\n", err)
		}
	}

	backupName := logFileName + "." + time.Now().Format("2006-01-02-15-04-05")
	currentPath := filepath.Join(r.dir, logFileName)
	backupPath := filepath.Join(r.dir, backupName)
	if err := os.Rename(currentPath, backupPath); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	// Compression failure keeps the plain backup; rotation went through.
	if err := compressFile(backupPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to compress log file %s: %v\n", backupPath, err)
	} else if err := os.Remove(backupPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to remove uncompressed log file %s: %v\n", backupPath, err)
	}

	r.prune()

	r.currentSize = 0
	return r.open()
}

func compressFile(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := in.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close input file during compression: %v\n", err)
		}
	}()

	out, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file during compression: %v\n", err)
		}
	}()

	gz := gzip.NewWriter(out)
	defer func() {
		if err := gz.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close gzip writer: %v\n", err)
		}
	}()

	_, err = io.Copy(gz, in)
	return err
}

// prune drops backups older than logMaxAge and, of the rest, keeps the
// newest logMaxBackups.
func (r *LogRotator) prune() {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return
	}

	var backups []os.FileInfo
	now := time.Now()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), logFileName+".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > logMaxAge {
			if err := os.Remove(filepath.Join(r.dir, entry.Name())); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to remove old log file: %v\n", err)
			}
			continue
		}
		backups = append(backups, info)
	}

	if len(backups) <= logMaxBackups {
		return
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModTime().Before(backups[j].ModTime())
	})
	for _, info := range backups[:len(backups)-logMaxBackups] {
		if err := os.Remove(filepath.Join(r.dir, info.Name())); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove excess backup file: %v\n", err)
		}
	}
}

func (r *LogRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.currentFile != nil {
		return r.currentFile.Close()
	}
	return nil
}
