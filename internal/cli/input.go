package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/roach88/blockscan/internal/diagram"
)

// LoadError is a failure to obtain a command's input.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// stdinName is the file name that selects standard input.
const stdinName = "-"

// readDocument reads a document from path, or from stdin when path is "-".
func readDocument(path string, stdin io.Reader) (string, error) {
	if path == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading stdin: %v", err), Err: err}
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", path), Err: err}
	}
	if err != nil {
		return "", &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading %s: %v", path, err), Err: err}
	}
	return string(data), nil
}

// loadDiagram returns the diagram at path, or the built-in one.
func loadDiagram(path string) (*diagram.Diagram, error) {
	if path == "" {
		return diagram.Default(), nil
	}
	d, err := diagram.Load(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeDiagram, Message: err.Error(), Err: err}
	}
	return d, nil
}

// reportLoadError prints err and converts it to a command error.
func reportLoadError(f *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = f.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, "failed to load input", err)
	}
	_ = f.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "failed to load input", err)
}
