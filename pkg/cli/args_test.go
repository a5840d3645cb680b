package cli

import (
	"flag"
	"testing"

	"ziptool/pkg/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	o, err := Parse([]string{"-compress", "-sourcePath", "src", "-destinationPath", "out.zip"})
	require.NoError(t, err)

	assert.True(t, o.Compress)
	assert.False(t, o.Extract)
	assert.Equal(t, "src", o.SourcePath)
	assert.Equal(t, "out.zip", o.DestinationPath)
	assert.Equal(t, 1024, o.BufferSize)
	assert.Equal(t, -1, o.CompressionLevel)
	assert.Equal(t, core.MethodDeflate, o.CompressionMethod)
	assert.Equal(t, core.ExtractModeAppend, o.ExtractMode)
	assert.False(t, o.Overwrite)
	assert.False(t, o.IncludeEmptyFolders)
	assert.False(t, o.IncludeRootFolder)
	assert.False(t, o.IncludeHiddenFiles)
	assert.Nil(t, o.Exclude)
}

func TestParseCompressFlags(t *testing.T) {
	o, err := Parse([]string{
		"-sourcePath", "src", "-destinationPath", "out.zip", "-compress",
		"-overwrite", "-bufferSize", "8192", "-compressionLevel", "9",
		"-compressionMethod", "zstd", "-includeEmptyFolders", "-includeRootFolder",
		"-includeHiddenFiles", "-excludeByRegexp", `.*\.bak`,
	})
	require.NoError(t, err)

	c := o.CompressOptions()
	assert.True(t, c.Overwrite)
	assert.Equal(t, 8192, c.BufferSize)
	assert.Equal(t, 9, c.CompressionLevel)
	assert.Equal(t, core.MethodZstd, c.CompressionMethod)
	assert.True(t, c.IncludeEmptyFolders)
	assert.True(t, c.IncludeRootFolder)
	assert.True(t, c.IncludeHiddenFiles)
	require.NotNil(t, c.Exclude)

	matched, err := c.Exclude.MatchString("old.bak")
	require.NoError(t, err)
	assert.True(t, matched)
}

func TestParseExtractWipe(t *testing.T) {
	o, err := Parse([]string{"-extract", "-sourcePath", "a.zip", "-destinationPath", "dst", "-extractMode", "wipe", "-overwrite"})
	require.NoError(t, err)

	x := o.ExtractOptions()
	assert.True(t, x.Wipe)
	assert.True(t, x.Overwrite)
	assert.Equal(t, "a.zip", x.SourcePath)
	assert.Equal(t, "dst", x.DestinationPath)
}

func TestParseVersionWins(t *testing.T) {
	o, err := Parse([]string{"-bogus", "-version"})
	require.NoError(t, err)
	assert.True(t, o.Version)
}

func TestParseHelp(t *testing.T) {
	_, err := Parse([]string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestParseErrors(t *testing.T) {
	base := []string{"-sourcePath", "s", "-destinationPath", "d"}
	with := func(extra ...string) []string {
		return append(append([]string{}, base...), extra...)
	}

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no source", []string{"-compress", "-destinationPath", "d"}, ErrMissingArgument},
		{"no destination", []string{"-compress", "-sourcePath", "s"}, ErrMissingArgument},
		{"no mode", with(), ErrMissingArgument},
		{"both modes", with("-compress", "-extract"), ErrInvalidArgument},
		{"flag without value", with("-compress", "-bufferSize"), ErrMissingArgument},
		{"non-integer buffer", with("-compress", "-bufferSize", "big"), ErrInvalidArgument},
		{"zero buffer", with("-compress", "-bufferSize", "0"), ErrInvalidArgument},
		{"level too high", with("-compress", "-compressionLevel", "10"), ErrInvalidArgument},
		{"level too low", with("-compress", "-compressionLevel", "-2"), ErrInvalidArgument},
		{"unknown method", with("-compress", "-compressionMethod", "rar"), ErrInvalidArgument},
		{"unknown extract mode", with("-extract", "-extractMode", "replace"), ErrInvalidArgument},
		{"bad pattern", with("-compress", "-excludeByRegexp", "(oops"), ErrInvalidArgument},
		{"unknown flag", with("-compress", "-fast"), ErrInvalidArgument},
		{"positional argument", with("-compress", "extra"), ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSettings(t *testing.T) {
	o, err := Parse([]string{"-extract", "-sourcePath", "a.zip", "-destinationPath", "dst"})
	require.NoError(t, err)

	kv := o.Settings()
	assert.Contains(t, kv, "extractMode")
	assert.NotContains(t, kv, "compressionLevel")
}
