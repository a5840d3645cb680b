package core

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dlclark/regexp2"
)

// excludeMatchTimeout bounds a single exclusion match so a backtracking
// pattern cannot stall the walk.
const excludeMatchTimeout = time.Second

// Node is a filesystem entry seen during a walk. Info follows symlinks when
// the target exists.
type Node struct {
	Path string
	Name string
	Info fs.FileInfo
}

// StatNode returns the Node for path.
func StatNode(path string) (Node, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Node{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Node{Path: path, Name: filepath.Base(path), Info: info}, nil
}

// ReadNodes lists the direct children of dir in name order.
func ReadNodes(dir string) ([]Node, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	nodes := make([]Node, 0, len(entries))
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil {
			// Dangling symlink: keep the link itself, it is neither file nor directory.
			if info, err = e.Info(); err != nil {
				return nil, fmt.Errorf("stat %s: %w", path, err)
			}
		}
		nodes = append(nodes, Node{Path: path, Name: e.Name(), Info: info})
	}
	return nodes, nil
}

// CompileExclude compiles an exclusion pattern that must match a whole base name.
func CompileExclude(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(`^(?:`+pattern+`)\z`, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("compile exclusion pattern %q: %w", pattern, err)
	}
	re.MatchTimeout = excludeMatchTimeout
	return re, nil
}

// Filter decides which nodes of a tree end up in an archive.
type Filter struct {
	IncludeHiddenFiles  bool
	IncludeEmptyFolders bool
	Exclude             *regexp2.Regexp
}

// Include reports whether n passes the hidden-file and exclusion rules.
func (f *Filter) Include(n Node) (bool, error) {
	if !f.IncludeHiddenFiles && isHidden(n.Path, n.Name) {
		return false, nil
	}
	if f.Exclude == nil {
		return true, nil
	}
	matched, err := f.Exclude.MatchString(n.Name)
	if err != nil {
		return false, fmt.Errorf("match exclusion pattern against %s: %w", n.Path, err)
	}
	return !matched, nil
}

// IncludeFolder reports whether dir should produce an archive entry, given
// its direct children. A nil children slice means they could not be listed.
func (f *Filter) IncludeFolder(dir Node, children []Node) (bool, error) {
	ok, err := f.Include(dir)
	if err != nil || !ok {
		return false, err
	}
	return f.hasContent(children)
}

// hasContent stops at the first included regular file or at the first
// subdirectory that itself qualifies. Recursion depth equals the depth of
// the subtree below the directory being checked.
func (f *Filter) hasContent(children []Node) (bool, error) {
	if len(children) == 0 {
		return f.IncludeEmptyFolders, nil
	}
	for _, child := range children {
		ok, err := f.Include(child)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		if child.Info.Mode().IsRegular() {
			return true, nil
		}
		if !child.Info.IsDir() {
			continue
		}
		grandchildren, err := ReadNodes(child.Path)
		if err != nil {
			return false, err
		}
		ok, err = f.IncludeFolder(child, grandchildren)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return f.IncludeEmptyFolders, nil
}
