package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joshuapare/iekit/cmd/iectl/logger"
	"github.com/joshuapare/iekit/resource"
	"github.com/joshuapare/iekit/resource/dirty"
)

// editSession tracks the ranges an edit touched so an in-place save only
// rewrites those.
type editSession struct {
	path    string
	doc     *resource.Document
	tracker *dirty.Tracker
	cleanup func()
}

func beginEdit(path string) (*editSession, error) {
	doc, cleanup, err := openDocument(path)
	if err != nil {
		return nil, err
	}
	return &editSession{path: path, doc: doc, tracker: dirty.NewTracker(doc), cleanup: cleanup}, nil
}

func (s *editSession) close() {
	s.tracker.Close()
	s.cleanup()
}

// save writes the document to out, or back to the source when out is empty
// or the same file. In-place saves flush only the dirty ranges.
func (s *editSession) save(ctx context.Context, out string) error {
	if out != "" && out != s.path {
		data, err := s.doc.Bytes()
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		logger.Info("saved", "file", out, "size", len(data))
		printVerbose("Wrote %d bytes to %s\n", len(data), out)
		return nil
	}

	if !s.tracker.Dirty() {
		printVerbose("No changes to write\n")
		return nil
	}
	ranges := s.tracker.Ranges()
	f, err := os.OpenFile(s.path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	n, err := s.tracker.Flush(ctx, f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	logger.Info("flushed", "file", s.path, "ranges", len(ranges), "bytes", n)
	printVerbose("Rewrote %d bytes in %d range(s) of %s\n", n, len(ranges), s.path)
	return nil
}
