package xio

import (
	"io"
)

// NewWriteCloser adapts a plain writer for APIs that insist on closing
// their output. Close is forwarded when the writer supports it.
func NewWriteCloser(w io.Writer) io.WriteCloser {
	return &writeCloser{
		Writer: w,
	}
}

type writeCloser struct {
	io.Writer
}

func (wc *writeCloser) Close() error {
	if closer, ok := wc.Writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
