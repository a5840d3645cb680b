package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"ziptool/pkg/progress"

	"github.com/klauspost/compress/zip"
)

// Compress writes the tree at opts.SourcePath into a new zip container at
// opts.DestinationPath. Any failure aborts the run and leaves the partially
// written destination in place.
func Compress(opts CompressOptions, tracker *progress.Tracker) error {
	if opts.CompressionMethod != "" && !ValidMethod(opts.CompressionMethod) {
		return fmt.Errorf("%w: %q", ErrUnknownMethod, opts.CompressionMethod)
	}

	root, err := StatNode(opts.SourcePath)
	if err != nil {
		return err
	}
	// "." or "dir/.." still names the root entry after the real directory.
	if abs, err := filepath.Abs(opts.SourcePath); err == nil {
		root.Name = filepath.Base(abs)
	}

	if err := checkOutput(opts.DestinationPath, opts.Overwrite); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(opts.DestinationPath), 0755); err != nil {
		return fmt.Errorf("%w: output directory: %w", ErrCreateFailed, err)
	}

	f, err := os.Create(opts.DestinationPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	output, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat output: %w", err)
	}

	zw := zip.NewWriter(f)
	method, err := entryMethod(zw, opts.CompressionMethod, opts.CompressionLevel)
	if err != nil {
		return err
	}

	a := &archiver{
		zw:         zw,
		filter:     opts.filter(),
		method:     method,
		buf:        &ChunkBuffer{},
		bufferSize: opts.BufferSize,
		output:     output,
		tracker:    tracker,
	}
	if root.Info.IsDir() {
		err = a.addRoot(root, opts.IncludeRootFolder)
	} else {
		err = a.addFile(root, root.Name)
	}
	if err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

// checkOutput refuses to replace an existing destination unless overwrite is set.
func checkOutput(path string, overwrite bool) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("check output existence: %w", err)
	}
}

// archiver holds the state of one depth-first walk. Recursion depth is
// bounded by the directory depth of the source tree.
type archiver struct {
	zw         *zip.Writer
	filter     *Filter
	method     uint16
	buf        *ChunkBuffer
	bufferSize int
	output     fs.FileInfo // the container being written, never archived into itself
	tracker    *progress.Tracker
}

// addRoot archives the contents of the source directory. The root itself is
// exempt from the hidden and exclusion rules since it was named explicitly.
func (a *archiver) addRoot(root Node, includeRootFolder bool) error {
	children, err := ReadNodes(root.Path)
	if err != nil {
		return err
	}

	prefix := ""
	if includeRootFolder {
		ok, err := a.filter.hasContent(children)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		prefix = root.Name + "/"
		if err := a.addDir(root, prefix); err != nil {
			return err
		}
	}

	for _, child := range children {
		if err := a.visit(child, prefix); err != nil {
			return err
		}
	}
	return nil
}

// visit archives n under the entry prefix parent.
func (a *archiver) visit(n Node, parent string) error {
	if os.SameFile(n.Info, a.output) {
		return nil
	}
	ok, err := a.filter.Include(n)
	if err != nil || !ok {
		return err
	}

	switch {
	case n.Info.IsDir():
		children, err := ReadNodes(n.Path)
		if err != nil {
			return err
		}
		ok, err := a.filter.IncludeFolder(n, children)
		if err != nil || !ok {
			return err
		}
		name := parent + n.Name + "/"
		if err := a.addDir(n, name); err != nil {
			return err
		}
		for _, child := range children {
			if err := a.visit(child, name); err != nil {
				return err
			}
		}
		return nil
	case n.Info.Mode().IsRegular():
		return a.addFile(n, parent+n.Name)
	default:
		a.tracker.Logger().Warn("Skipped special file", "path", n.Path, "mode", n.Info.Mode().Type())
		return nil
	}
}

// addDir writes a zero-length directory marker entry.
func (a *archiver) addDir(n Node, name string) error {
	hdr := &zip.FileHeader{
		Name:     name,
		Method:   zip.Store,
		Modified: n.Info.ModTime(),
	}
	hdr.SetMode(n.Info.Mode())
	if _, err := a.zw.CreateHeader(hdr); err != nil {
		return fmt.Errorf("create entry %s: %w", name, err)
	}
	a.tracker.Entry("Added folder", name)
	return nil
}

// addFile streams the file at n.Path into a new entry through the shared buffer.
func (a *archiver) addFile(n Node, name string) error {
	f, err := os.Open(n.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", n.Path, err)
	}
	defer f.Close()

	hdr, err := zip.FileInfoHeader(n.Info)
	if err != nil {
		return fmt.Errorf("header for %s: %w", n.Path, err)
	}
	hdr.Name = name
	hdr.Method = a.method

	w, err := a.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", name, err)
	}
	if _, err := copyChunks(a.tracker.Writer(w), f, a.buf.Get(a.bufferSize)); err != nil {
		return fmt.Errorf("compress %s: %w", n.Path, err)
	}
	a.tracker.Entry("Added file", name)
	return nil
}
