package cerr

import (
	"errors"
	"fmt"

	"github.com/kazz187/taskdigest/pkg/storage"
)

// WrapStorageReadError maps a storage failure on target to a caller-facing
// code: missing objects are NotFound, keys outside the store InvalidArgument.
func WrapStorageReadError(target string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return NewError(NotFound, fmt.Sprintf("%s not found", target), err)
	case errors.Is(err, storage.ErrInvalidKey):
		return NewError(InvalidArgument, fmt.Sprintf("invalid %s", target), err)
	}
	return NewError(Internal, "server error", fmt.Errorf("failed to read %s: %w", target, err))
}

func WrapStorageWriteError(target string, err error) error {
	if errors.Is(err, storage.ErrInvalidKey) {
		return NewError(InvalidArgument, fmt.Sprintf("invalid %s", target), err)
	}
	return NewError(Internal, "server error", fmt.Errorf("failed to write %s: %w", target, err))
}
