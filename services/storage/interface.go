package storage

import "context"

// StorageService abstracts the media store holding booking photos and
// profile avatars.
type StorageService interface {
	// Upload stores the local file under the given public ID and
	// returns the delivery URL.
	Upload(ctx context.Context, localFilePath, publicID string) (string, error)
	// Delete removes a stored file by its public ID.
	Delete(ctx context.Context, publicID string) error
	// URL resolves the delivery URL for a previously stored file.
	URL(publicID string) (string, error)
}
