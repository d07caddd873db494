package systems

import (
	"errors"
	"fmt"
)

// LoadErrorKind tells which bootstrap stage rejected a model.
type LoadErrorKind int

const (
	DecodeError LoadErrorKind = iota + 1
	ResourceLoadError
)

func (k LoadErrorKind) String() string {
	switch k {
	case DecodeError:
		return "decode"
	case ResourceLoadError:
		return "resource load"
	default:
		return "unknown"
	}
}

var (
	ErrDecode       = errors.New("model decode failed")
	ErrResourceLoad = errors.New("model resource load failed")

	// ErrNoAnimation is reported once per model without animation tracks.
	ErrNoAnimation = errors.New("model has no animation tracks")
)

// LoadError is returned by LoadModel. It matches ErrDecode or
// ErrResourceLoad with errors.Is, depending on Kind.
type LoadError struct {
	Kind LoadErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrDecode:
		return e.Kind == DecodeError
	case ErrResourceLoad:
		return e.Kind == ResourceLoadError
	}
	return false
}

// AnimationApplyError wraps a failure (or recovered panic) of the animator
// during a frame.
type AnimationApplyError struct {
	Animation int
	Time      float64
	Err       error
}

func (e *AnimationApplyError) Error() string {
	return fmt.Sprintf("apply animation %d at %.3fs: %v", e.Animation, e.Time, e.Err)
}

func (e *AnimationApplyError) Unwrap() error {
	return e.Err
}
