package drafts

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// FileData embeds a binary attachment inside a draft payload as a data URL,
// so the whole draft stays a single JSON document.
type FileData struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Base64 string `json:"base64"`
}

// NewFileData wraps raw bytes as an embeddable attachment.
func NewFileData(name, mimeType string, data []byte) FileData {
	return FileData{
		Name:   name,
		Type:   mimeType,
		Base64: "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
}

// Bytes decodes the attachment payload. Both bare base64 and data-URL forms
// are accepted.
func (f FileData) Bytes() ([]byte, error) {
	encoded := f.Base64
	if idx := strings.IndexByte(encoded, ','); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode attachment %q: %w", f.Name, err)
	}
	return data, nil
}

// MIME returns the attachment content type, preferring the data-URL header
// over the stored Type field.
func (f FileData) MIME() string {
	if strings.HasPrefix(f.Base64, "data:") {
		rest := strings.TrimPrefix(f.Base64, "data:")
		if idx := strings.IndexByte(rest, ';'); idx > 0 {
			return rest[:idx]
		}
	}
	return f.Type
}
