package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound      = errors.New("media session not found")
	ErrEmptyPath     = errors.New("provided path was empty")
	ErrInvalidFormat = errors.New("unsupported audio format")
	ErrInvalidVolume = errors.New("volume must be between 0.0 and 1.0")
	ErrInvalidPan    = errors.New("pan must be between -1.0 and 1.0")
)

// Native error codes reported by the audio services
const (
	CodeSeekFail    = "seekfail"
	CodeNotFound    = "notfound"
	CodeNoPath      = "nopath"
	CodeInvalidPath = "invalidpath"
	CodePrepare     = "prepare"
	CodePlayback    = "playback"
	CodePause       = "pause"
	CodeStop        = "stop"
	CodePrepareFail = "preparefail"
	CodeStartFail   = "startfail"
	CodeStopFail    = "stopfail"
)

// NativeError is a failure reported by a native audio service
type NativeError struct {
	Code    string // Machine-readable failure kind
	Message string
	Err     error // Underlying error, if any
}

func (e *NativeError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *NativeError) Unwrap() error {
	return e.Err
}

// NewNativeError creates a NativeError wrapping err
func NewNativeError(code string, err error) *NativeError {
	ne := &NativeError{Code: code, Err: err}
	if err != nil {
		ne.Message = err.Error()
	}
	return ne
}

// Code returns the native error code carried by err, or "" if none.
func Code(err error) string {
	var ne *NativeError
	if errors.As(err, &ne) {
		return ne.Code
	}
	return ""
}

// IsSeekSuperseded reports whether err marks a seek replaced by a newer one.
func IsSeekSuperseded(err error) bool {
	return err != nil && Code(err) == CodeSeekFail
}

// OpError wraps errors with the controller operation that failed
type OpError struct {
	Op   string // Operation that failed
	Path string // Media path if applicable
	Err  error  // Underlying error
}

func (e *OpError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError creates a new OpError
func NewOpError(op, path string, err error) *OpError {
	return &OpError{Op: op, Path: path, Err: err}
}
