package domain

// ChangeType classifies a change reported by a document source.
type ChangeType string

// Change types.
const (
	// ChangeCreated is a new file.
	ChangeCreated ChangeType = "created"

	// ChangeUpdated is a modified file.
	ChangeUpdated ChangeType = "updated"

	// ChangeDeleted is a removed or renamed file.
	ChangeDeleted ChangeType = "deleted"
)

// Change is one file event from a watched source. Content is only read
// for created and updated files.
type Change struct {
	Type     ChangeType
	Document RawDocument
}

// SyncReport counts the outcome of ingesting a folder.
type SyncReport struct {
	// Ingested lists the IDs of documents created by the sync.
	Ingested []string

	// Skipped is the number of files already uploaded.
	Skipped int

	// Failed maps file URIs to the reason they were not ingested.
	Failed map[string]string
}
