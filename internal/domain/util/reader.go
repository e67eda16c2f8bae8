package util

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
)

// HeadReader passes a stream through while capturing its first bytes, a
// SHA-256 checksum, and the byte count. It lets a download be validated
// after streaming to storage without buffering the whole body.
type HeadReader struct {
	reader  io.Reader
	head    []byte
	headCap int
	count   int64
	digest  hash.Hash
}

// NewHeadReader wraps reader, retaining at most headSize leading bytes.
func NewHeadReader(reader io.Reader, headSize int) *HeadReader {
	if headSize < 0 {
		headSize = 0
	}
	return &HeadReader{
		reader:  reader,
		headCap: headSize,
		digest:  sha256.New(),
	}
}

func (h *HeadReader) Read(p []byte) (int, error) {
	n, err := h.reader.Read(p)
	if n > 0 {
		h.count += int64(n)
		h.digest.Write(p[:n])
		if missing := h.headCap - len(h.head); missing > 0 {
			take := n
			if take > missing {
				take = missing
			}
			h.head = append(h.head, p[:take]...)
		}
	}
	return n, err
}

// Head returns the captured leading bytes of the stream.
func (h *HeadReader) Head() []byte {
	return h.head
}

// BytesRead returns how many bytes have passed through so far.
func (h *HeadReader) BytesRead() int64 {
	return h.count
}

// Checksum returns the SHA-256 of everything read so far, hex encoded.
func (h *HeadReader) Checksum() string {
	return fmt.Sprintf("%x", h.digest.Sum(nil))
}
