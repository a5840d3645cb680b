package core

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"ziptool/pkg/progress"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

// writeTree creates files under root. Keys ending in "/" are directories.
func writeTree(t *testing.T, root string, tree map[string]string) {
	t.Helper()
	for name, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			require.NoError(t, os.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// readTree returns every file and directory under root, keyed like writeTree.
func readTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			tree[rel+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tree[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return tree
}

// entryNames lists the entry names of the container at path, sorted.
func entryNames(t *testing.T, path string) []string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// writeZip builds a container with the given entries in order. Names ending
// in "/" become directory markers.
func writeZip(t *testing.T, path string, entries [][2]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e[0])
		require.NoError(t, err)
		if !strings.HasSuffix(e[0], "/") {
			_, err = w.Write([]byte(e[1]))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
}

func compressOpts(src, dst string) CompressOptions {
	return CompressOptions{
		SourcePath:        src,
		DestinationPath:   dst,
		BufferSize:        DefaultBufferSize,
		CompressionMethod: MethodDeflate,
		CompressionLevel:  -1,
	}
}

func extractOpts(src, dst string) ExtractOptions {
	return ExtractOptions{
		SourcePath:      src,
		DestinationPath: dst,
		BufferSize:      DefaultBufferSize,
	}
}

func quiet() *progress.Tracker {
	return progress.Discard()
}
