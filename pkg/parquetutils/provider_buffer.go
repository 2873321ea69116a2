// nolint: wrapcheck
package parquetutils

import (
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/source"
)

var _ source.ParquetFile = (*BufferFile)(nil)

// BufferFile is a read-only parquet source over an in-memory file.
type BufferFile struct {
	underlying *parquetbuffer.BufferFile
}

// NewBufferFile uses the provided slice as its buffer.
func NewBufferFile(s []byte) *BufferFile {
	return &BufferFile{
		underlying: parquetbuffer.NewBufferFileFromBytesNoAlloc(s),
	}
}

func (bf *BufferFile) Create(string) (source.ParquetFile, error) {
	return &BufferFile{underlying: parquetbuffer.NewBufferFile()}, nil
}

// Open returns an independent reader over the same bytes, the parquet
// reader opens one per column.
func (bf *BufferFile) Open(string) (source.ParquetFile, error) {
	return NewBufferFile(bf.underlying.Bytes()), nil
}

func (bf *BufferFile) Seek(offset int64, whence int) (int64, error) {
	return bf.underlying.Seek(offset, whence)
}

func (bf *BufferFile) Read(p []byte) (n int, err error) {
	return bf.underlying.Read(p)
}

func (bf *BufferFile) Write(p []byte) (n int, err error) {
	return bf.underlying.Write(p)
}

func (bf *BufferFile) Close() error {
	return bf.underlying.Close()
}
