package media

import "fmt"

// UnsupportedTypeError reports a file whose extension is in neither the
// video nor the image allow-list. Fatal for that asset only.
type UnsupportedTypeError struct {
	Path string
	Ext  string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Ext == "" {
		return fmt.Sprintf("unsupported media type: %s (no extension)", e.Path)
	}
	return fmt.Sprintf("unsupported media type: %s (extension %s)", e.Path, e.Ext)
}

// InvalidMediaError reports an asset that cannot be opened for decoding or
// has a zero/undefined frame rate. The pipeline run aborts for that asset.
type InvalidMediaError struct {
	Path   string
	Reason string
	Err    error
}

func (e *InvalidMediaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid media %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid media %s: %s", e.Path, e.Reason)
}

func (e *InvalidMediaError) Unwrap() error {
	return e.Err
}
