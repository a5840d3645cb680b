package core

import (
	"github.com/dlclark/regexp2"
)

// DefaultBufferSize is the transfer chunk size used when none is configured.
const DefaultBufferSize = 1024

// Extraction modes
const (
	ExtractModeAppend = "append" // Merge entries into an existing destination
	ExtractModeWipe   = "wipe"   // Delete an existing destination directory first
)

// CompressOptions configures a single archive run.
type CompressOptions struct {
	SourcePath      string // Directory or file to archive
	DestinationPath string // Zip file to create
	Overwrite       bool   // Replace an existing destination file

	BufferSize        int    // Transfer chunk size in bytes
	CompressionMethod string // One of the Method* names
	CompressionLevel  int    // -1 for the compressor's default, otherwise 0-9

	IncludeEmptyFolders bool
	IncludeRootFolder   bool
	IncludeHiddenFiles  bool
	Exclude             *regexp2.Regexp // Optional, matched against base names
}

// ExtractOptions configures a single extract run.
type ExtractOptions struct {
	SourcePath      string // Zip file to read
	DestinationPath string // Extraction root
	Overwrite       bool   // Replace existing files and allow wiping
	Wipe            bool   // Remove an existing destination directory first

	BufferSize int // Transfer chunk size in bytes
}

// filter builds the inclusion rules for a compress run.
func (o CompressOptions) filter() *Filter {
	return &Filter{
		IncludeHiddenFiles:  o.IncludeHiddenFiles,
		IncludeEmptyFolders: o.IncludeEmptyFolders,
		Exclude:             o.Exclude,
	}
}
