package core

import "errors"

// Sentinel errors for archive and extract failures. Callers match them with
// errors.Is; the wrapped message carries the offending path.
var (
	// ErrAlreadyExists indicates the destination or an entry target exists
	// and overwriting was not permitted.
	ErrAlreadyExists = errors.New("already exists")

	// ErrDeleteFailed indicates an existing file or directory could not be removed.
	ErrDeleteFailed = errors.New("delete failed")

	// ErrCreateFailed indicates a directory needed for an entry could not be created.
	ErrCreateFailed = errors.New("create failed")

	// ErrPathEscape indicates an entry name resolves outside the extraction root.
	ErrPathEscape = errors.New("entry path escapes destination")

	// ErrUnknownMethod indicates an unsupported compression method name.
	ErrUnknownMethod = errors.New("unknown compression method")
)
