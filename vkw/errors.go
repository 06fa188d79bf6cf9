package vkw

import (
	"errors"
	"fmt"

	"github.com/vulkan-go/vulkan"
)

var (
	// ErrExtensionUnavailable is returned when an extension entry point
	// cannot be resolved from the instance.
	ErrExtensionUnavailable = errors.New("vkw: extension entry point unavailable")

	// ErrWindowSurface is wrapped by the CreateError of a failed
	// window surface creation.
	ErrWindowSurface = errors.New("vkw: window surface creation failed")

	// ErrContextExists is returned by NewContext while another
	// Context is still live.
	ErrContextExists = errors.New("vkw: windowing context already initialized")
)

// ResultError reports a failing vulkan.Result.
type ResultError struct {
	Code vulkan.Result
}

func (e ResultError) Error() string {
	if err := vulkan.Error(e.Code); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("vulkan result %d", int32(e.Code))
}

// checkResult converts a non-success result into a ResultError.
func checkResult(res vulkan.Result) error {
	if res == vulkan.Success {
		return nil
	}
	return ResultError{Code: res}
}

// CreateError is returned when the native creation of a resource fails.
// No handle is owned when a CreateError is returned.
type CreateError struct {
	Kind Kind
	Code vulkan.Result
	Err  error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("create %s: %v", e.Kind, e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// newCreateError wraps err, extracting the native result code when
// one is available.
func newCreateError(k Kind, err error) *CreateError {
	ce := &CreateError{Kind: k, Code: vulkan.ErrorInitializationFailed, Err: err}
	var re ResultError
	if errors.As(err, &re) {
		ce.Code = re.Code
	}
	return ce
}
