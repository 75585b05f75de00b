package domain

// RawDocument represents uploaded bytes before text extraction.
type RawDocument struct {
	// URI is the original location (file path, URL, etc).
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains caller supplied key-value pairs, such as a title.
	Metadata map[string]any
}
