package firmware

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		wantSize   int
		wantDigest string
		wantErr    bool
	}{
		{
			name:       "known vector",
			data:       []byte("The quick brown fox jumps over the lazy dog"),
			wantSize:   43,
			wantDigest: "9e107d9d372bb6826bd81d3542a419d6",
		},
		{
			name:       "single byte",
			data:       []byte{0x00},
			wantSize:   1,
			wantDigest: "93b885adfe0da089cdf634904fd59f71",
		},
		{
			name:    "empty payload",
			data:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := New(tt.data)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if img.Size() != tt.wantSize {
				t.Errorf("Size() = %d, want %d", img.Size(), tt.wantSize)
			}

			if img.Digest() != tt.wantDigest {
				t.Errorf("Digest() = %q, want %q", img.Digest(), tt.wantDigest)
			}

			if !bytes.Equal(img.Bytes(), tt.data) {
				t.Error("Bytes() does not match input payload")
			}
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	data := []byte{1, 2, 3, 4}

	img, err := New(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	digest := img.Digest()
	data[0] = 0xFF

	again, err := New(img.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if again.Digest() != digest {
		t.Error("mutating the caller's buffer changed the image payload")
	}
}

func TestDigestDeterministic(t *testing.T) {
	payload := bytes.Repeat([]byte{0xA5}, 4096)

	first, err := New(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := New(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.Digest() != second.Digest() {
		t.Errorf("digest not deterministic: %q != %q", first.Digest(), second.Digest())
	}

	if len(first.Digest()) != 32 {
		t.Errorf("digest length = %d, want 32 hex chars", len(first.Digest()))
	}
}

func TestLoadReader(t *testing.T) {
	img, err := LoadReader(strings.NewReader("firmware bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if img.Size() != len("firmware bytes") {
		t.Errorf("Size() = %d, want %d", img.Size(), len("firmware bytes"))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.bin")
	payload := bytes.Repeat([]byte{0x42}, 2500)

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	img, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if img.Size() != 2500 {
		t.Errorf("Size() = %d, want 2500", img.Size())
	}

	if _, err := Load(filepath.Join(dir, "missing.bin")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}
