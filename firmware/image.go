package firmware

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Image is an immutable in-memory firmware image. The content digest is
// computed once when the image is created and never recomputed, so the values
// announced during the invitation cannot drift from the bytes streamed during
// the transfer.
type Image struct {
	data   []byte
	digest string
}

// New creates an Image from raw bytes. The slice is copied, so the caller may
// reuse its buffer afterwards.
//
// Example:
//
//	img, err := firmware.New(payload)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("size=%d digest=%s\n", img.Size(), img.Digest())
func New(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("firmware image is empty")
	}

	owned := make([]byte, len(data))
	copy(owned, data)

	sum := md5.Sum(owned)

	return &Image{
		data:   owned,
		digest: hex.EncodeToString(sum[:]),
	}, nil
}

// Load reads a firmware image from the given file path.
//
// Example:
//
//	img, err := firmware.Load("app.bin")
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open firmware: %w", err)
	}
	defer func() { _ = f.Close() }()

	return LoadReader(f)
}

// LoadReader reads a firmware image to completion from any io.Reader.
// This is useful for testing and reading from non-file sources.
func LoadReader(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read firmware: %w", err)
	}

	return New(data)
}

// Size returns the payload length in bytes.
func (i *Image) Size() int {
	return len(i.data)
}

// Digest returns the hex-encoded MD5 content digest. The digest identifies
// the payload on the wire; it is not a cryptographic authentication of it.
func (i *Image) Digest() string {
	return i.digest
}

// Bytes returns the image payload. The returned slice is the image's own
// backing store and must not be modified.
func (i *Image) Bytes() []byte {
	return i.data
}
