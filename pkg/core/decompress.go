package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"ziptool/pkg/progress"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/klauspost/compress/zip"
)

// Extract recreates the entries of the container at opts.SourcePath under
// opts.DestinationPath, in container order. The first failing entry aborts
// the run; entries already written stay on disk.
func Extract(opts ExtractOptions, tracker *progress.Tracker) error {
	root, err := filepath.Abs(opts.DestinationPath)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}

	zr, err := zip.OpenReader(opts.SourcePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()
	registerDecompressors(&zr.Reader)

	if err := prepareDestination(root, opts.Overwrite, opts.Wipe, tracker); err != nil {
		return err
	}

	x := &extractor{
		root:       root,
		overwrite:  opts.Overwrite,
		buf:        &ChunkBuffer{},
		bufferSize: opts.BufferSize,
		tracker:    tracker,
	}
	for _, f := range zr.File {
		if err := x.extractEntry(f); err != nil {
			return err
		}
	}
	return nil
}

// prepareDestination applies the overwrite and wipe policy to an existing
// destination. A missing destination is created lazily by the entries.
func prepareDestination(root string, overwrite, wipe bool, tracker *progress.Tracker) error {
	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("stat destination: %w", err)
	case !info.IsDir():
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, root)
		}
		if err := os.Remove(root); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrDeleteFailed, root, err)
		}
		tracker.Event("Deleted target file for overwrite", root)
	case wipe:
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, root)
		}
		if err := os.RemoveAll(root); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrDeleteFailed, root, err)
		}
		tracker.Event("Wiped target folder", root)
	}
	return nil
}

type extractor struct {
	root       string
	overwrite  bool
	buf        *ChunkBuffer
	bufferSize int
	tracker    *progress.Tracker
}

func (x *extractor) extractEntry(f *zip.File) error {
	target, err := x.resolve(f.Name)
	if err != nil {
		return err
	}

	if info, err := os.Lstat(target); err == nil && info.Mode().IsRegular() {
		if !x.overwrite {
			return fmt.Errorf("%w: entry %q", ErrAlreadyExists, f.Name)
		}
		if err := os.Remove(target); err != nil {
			return fmt.Errorf("%w: entry %q: %w", ErrDeleteFailed, f.Name, err)
		}
		x.tracker.Event("Deleted file for entry overwrite", f.Name)
	}

	if f.FileInfo().IsDir() {
		created, err := x.ensureDir(target, f.Name)
		if err != nil {
			return err
		}
		if created {
			x.tracker.Entry("Created folder", f.Name)
		}
		return nil
	}

	if _, err := x.ensureDir(filepath.Dir(target), f.Name); err != nil {
		return err
	}
	if err := x.writeFile(f, target); err != nil {
		return err
	}
	x.tracker.Entry("Created file", f.Name)
	return nil
}

// resolve maps an entry name to its path under the root. Names that lexically
// leave the root are rejected; the rest are resolved so that symlinks already
// present in the destination cannot redirect the write outside it.
func (x *extractor) resolve(name string) (string, error) {
	unsafePath := filepath.FromSlash(name)
	if !within(x.root, filepath.Join(x.root, unsafePath)) {
		return "", fmt.Errorf("%w: entry %q is outside of %s", ErrPathEscape, name, x.root)
	}
	target, err := securejoin.SecureJoin(x.root, unsafePath)
	if err != nil {
		return "", fmt.Errorf("resolve entry %q: %w", name, err)
	}
	return target, nil
}

// within reports whether target is root or lies below it. Both must be clean.
func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ensureDir creates dir and its missing ancestors. It reports false when dir
// already existed.
func (x *extractor) ensureDir(dir, name string) (bool, error) {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return false, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("%w: folder for entry %q: %w", ErrCreateFailed, name, err)
	}
	return true, nil
}

// writeFile streams the payload of f into target through the shared buffer.
func (x *extractor) writeFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %q: %w", f.Name, err)
	}
	defer rc.Close()

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := copyChunks(x.tracker.Writer(out), rc, x.buf.Get(x.bufferSize)); err != nil {
		return fmt.Errorf("extract %q: %w", f.Name, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", target, err)
	}
	return nil
}
