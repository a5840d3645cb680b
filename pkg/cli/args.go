// Package cli resolves the command line into run options.
//
// Flags use single-dash long names (-sourcePath, -extractMode wipe) and may
// appear in any order.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"ziptool/pkg/core"

	"github.com/dlclark/regexp2"
)

// Argument errors. Both are wrapped with the offending flag.
var (
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidArgument = errors.New("invalid argument value")
)

// Options is the resolved command line.
type Options struct {
	SourcePath      string
	DestinationPath string
	Overwrite       bool
	BufferSize      int

	Compress            bool
	CompressionLevel    int
	CompressionMethod   string
	IncludeEmptyFolders bool
	IncludeRootFolder   bool
	IncludeHiddenFiles  bool
	ExcludeByRegexp     string
	Exclude             *regexp2.Regexp

	Extract     bool
	ExtractMode string

	Quiet   bool
	Version bool
}

func newFlagSet(o *Options) *flag.FlagSet {
	fs := flag.NewFlagSet("ziptool", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&o.SourcePath, "sourcePath", "", "directory or file to archive, or container to extract (required)")
	fs.StringVar(&o.DestinationPath, "destinationPath", "", "container to create, or extraction root (required)")
	fs.BoolVar(&o.Overwrite, "overwrite", false, "replace an existing output or existing destination entries")
	fs.IntVar(&o.BufferSize, "bufferSize", core.DefaultBufferSize, "I/O chunk size in bytes")

	fs.BoolVar(&o.Compress, "compress", false, "create a container from -sourcePath")
	fs.IntVar(&o.CompressionLevel, "compressionLevel", -1, "compression level 0-9, -1 for the default")
	fs.StringVar(&o.CompressionMethod, "compressionMethod", core.MethodDeflate, "one of "+strings.Join(core.Methods, ", "))
	fs.BoolVar(&o.IncludeEmptyFolders, "includeEmptyFolders", false, "include folders with no included content")
	fs.BoolVar(&o.IncludeRootFolder, "includeRootFolder", false, "add the source folder itself as the top entry")
	fs.BoolVar(&o.IncludeHiddenFiles, "includeHiddenFiles", false, "include hidden files and folders")
	fs.StringVar(&o.ExcludeByRegexp, "excludeByRegexp", "", "exclude entries whose base name fully matches this pattern")

	fs.BoolVar(&o.Extract, "extract", false, "extract the container at -sourcePath")
	fs.StringVar(&o.ExtractMode, "extractMode", core.ExtractModeAppend, "append or wipe")

	fs.BoolVar(&o.Quiet, "quiet", false, "print warnings only")
	fs.BoolVar(&o.Version, "version", false, "print the name and version and exit")
	return fs
}

// Usage writes the flag reference to w.
func Usage(w io.Writer) {
	fs := newFlagSet(&Options{})
	fs.SetOutput(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ziptool -compress -sourcePath <dir|file> -destinationPath <archive.zip> [flags]")
	fmt.Fprintln(w, "  ziptool -extract -sourcePath <archive.zip> -destinationPath <dir> [flags]")
	fmt.Fprintln(w)
	fs.PrintDefaults()
}

// Parse resolves args (without the program name). A -version anywhere on the
// command line wins over every other flag. flag.ErrHelp is returned as is.
func Parse(args []string) (*Options, error) {
	for _, arg := range args {
		if arg == "-version" || arg == "--version" {
			return &Options{Version: true}, nil
		}
	}

	o := &Options{}
	fs := newFlagSet(o)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		if strings.HasPrefix(err.Error(), "flag needs an argument") {
			return nil, fmt.Errorf("%w: %v", ErrMissingArgument, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrInvalidArgument, fs.Arg(0))
	}

	if err := o.validate(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Options) validate() error {
	if o.SourcePath == "" {
		return fmt.Errorf("%w: -sourcePath is required", ErrMissingArgument)
	}
	if o.DestinationPath == "" {
		return fmt.Errorf("%w: -destinationPath is required", ErrMissingArgument)
	}
	if o.Compress == o.Extract {
		if o.Compress {
			return fmt.Errorf("%w: -compress and -extract are mutually exclusive", ErrInvalidArgument)
		}
		return fmt.Errorf("%w: either -compress or -extract must be specified", ErrMissingArgument)
	}
	if o.BufferSize <= 0 {
		return fmt.Errorf("%w: -bufferSize must be positive, got %d", ErrInvalidArgument, o.BufferSize)
	}
	if o.CompressionLevel < -1 || o.CompressionLevel > 9 {
		return fmt.Errorf("%w: -compressionLevel must be between -1 and 9, got %d", ErrInvalidArgument, o.CompressionLevel)
	}
	if !core.ValidMethod(o.CompressionMethod) {
		return fmt.Errorf("%w: unknown compressionMethod value %q, available values: %s",
			ErrInvalidArgument, o.CompressionMethod, strings.Join(core.Methods, ", "))
	}
	if o.ExtractMode != core.ExtractModeAppend && o.ExtractMode != core.ExtractModeWipe {
		return fmt.Errorf("%w: unknown extractMode value %q, available values: %s, %s",
			ErrInvalidArgument, o.ExtractMode, core.ExtractModeAppend, core.ExtractModeWipe)
	}
	if o.ExcludeByRegexp != "" {
		re, err := core.CompileExclude(o.ExcludeByRegexp)
		if err != nil {
			return fmt.Errorf("%w: -excludeByRegexp: %w", ErrInvalidArgument, err)
		}
		o.Exclude = re
	}
	return nil
}

// CompressOptions returns the archive settings.
func (o *Options) CompressOptions() core.CompressOptions {
	return core.CompressOptions{
		SourcePath:          o.SourcePath,
		DestinationPath:     o.DestinationPath,
		Overwrite:           o.Overwrite,
		BufferSize:          o.BufferSize,
		CompressionMethod:   o.CompressionMethod,
		CompressionLevel:    o.CompressionLevel,
		IncludeEmptyFolders: o.IncludeEmptyFolders,
		IncludeRootFolder:   o.IncludeRootFolder,
		IncludeHiddenFiles:  o.IncludeHiddenFiles,
		Exclude:             o.Exclude,
	}
}

// ExtractOptions returns the extraction settings.
func (o *Options) ExtractOptions() core.ExtractOptions {
	return core.ExtractOptions{
		SourcePath:      o.SourcePath,
		DestinationPath: o.DestinationPath,
		Overwrite:       o.Overwrite,
		Wipe:            o.ExtractMode == core.ExtractModeWipe,
		BufferSize:      o.BufferSize,
	}
}

// Settings returns the effective settings as key/value pairs for logging.
func (o *Options) Settings() []any {
	kv := []any{
		"sourcePath", o.SourcePath,
		"destinationPath", o.DestinationPath,
		"overwrite", o.Overwrite,
		"bufferSize", o.BufferSize,
	}
	if o.Compress {
		kv = append(kv,
			"compressionMethod", o.CompressionMethod,
			"compressionLevel", o.CompressionLevel,
			"includeEmptyFolders", o.IncludeEmptyFolders,
			"includeRootFolder", o.IncludeRootFolder,
			"includeHiddenFiles", o.IncludeHiddenFiles,
			"excludeByRegexp", o.ExcludeByRegexp,
		)
	}
	if o.Extract {
		kv = append(kv, "extractMode", o.ExtractMode)
	}
	return kv
}
