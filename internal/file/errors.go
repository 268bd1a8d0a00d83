package file

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the parent of every input rejection.
	ErrValidation = errors.New("validation failed")
	// ErrNoFile signals that the request carried no file payload.
	ErrNoFile = fmt.Errorf("%w: no file", ErrValidation)
	// ErrInvalidFileType signals a MIME type or extension outside the allow-list.
	ErrInvalidFileType = fmt.Errorf("%w: invalid file type", ErrValidation)
	// ErrFileTooLarge signals that the upload exceeds configured limits.
	ErrFileTooLarge = fmt.Errorf("%w: file too large", ErrValidation)
	// ErrInvalidFileName signals a name that cannot be embedded in a storage key.
	ErrInvalidFileName = fmt.Errorf("%w: invalid file name", ErrValidation)

	// ErrStorageWrite means the object store rejected the bytes; nothing was stored.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrMetadataWrite means the bytes were stored but no record references them.
	ErrMetadataWrite = errors.New("metadata write failed")
	// ErrNotFound signals that the file does not exist or belongs to someone else.
	ErrNotFound = errors.New("file not found")
	// ErrStoreUnavailable signals that the metadata store could not be queried.
	ErrStoreUnavailable = errors.New("metadata store unavailable")
	// ErrDeletion signals that the metadata record could not be removed.
	ErrDeletion = errors.New("file deletion failed")
)
