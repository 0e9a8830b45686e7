package drafts

import (
	"bytes"
	"strings"
	"testing"
)

func TestFileDataRoundTrip(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0xff}
	fd := NewFileData("sketch.png", "image/png", payload)

	if !strings.HasPrefix(fd.Base64, "data:image/png;base64,") {
		t.Fatalf("unexpected data url prefix: %q", fd.Base64)
	}
	if fd.MIME() != "image/png" {
		t.Fatalf("mime = %q", fd.MIME())
	}

	decoded, err := fd.Bytes()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatalf("payload mismatch: %v", decoded)
	}
}

func TestFileDataBareBase64(t *testing.T) {
	fd := FileData{Name: "note.txt", Type: "text/plain", Base64: "aGVsbG8="}

	decoded, err := fd.Bytes()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != "hello" {
		t.Fatalf("decoded = %q", decoded)
	}
	if fd.MIME() != "text/plain" {
		t.Fatalf("mime fell back incorrectly: %q", fd.MIME())
	}
}

func TestFileDataBadPayload(t *testing.T) {
	fd := FileData{Name: "bad.bin", Base64: "data:application/octet-stream;base64,!!!"}
	if _, err := fd.Bytes(); err == nil {
		t.Fatal("expected decode error")
	}
}
