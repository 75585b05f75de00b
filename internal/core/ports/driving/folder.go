package driving

import (
	"context"

	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// FolderService uploads the files of a local folder and keeps them in step
// with the folder while it is watched.
type FolderService interface {
	// Sync uploads every supported file under root that has not been
	// uploaded before. Per-file failures are reported, not returned.
	Sync(ctx context.Context, root string) (*domain.SyncReport, error)

	// Watch applies file changes under root until ctx is cancelled.
	// onChange is called after each change with the result of applying it.
	Watch(ctx context.Context, root string, onChange func(domain.Change, error)) error
}
