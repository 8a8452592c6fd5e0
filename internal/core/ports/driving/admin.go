package driving

import "context"

// AdminService performs destructive maintenance on the indexes.
type AdminService interface {
	// Wipe drops the vector collection. When wipeStore is true the chunk
	// store, the lexical index and the ingestion log are cleared too.
	Wipe(ctx context.Context, wipeStore bool) error
}
