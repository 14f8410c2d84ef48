// Package storage stages uploaded media in Cloudflare R2 (S3-compatible)
// object storage. Staged objects exist only to hand media bytes to the
// transcription capability and are deleted when the request completes.
package storage

import "context"

// Store is the object storage contract: put/get/delete a blob by key,
// plus time-limited presigned upload URLs so the browser can stage
// media without routing bytes through this service.
type Store interface {
	// PresignUpload returns a write-capable URL, valid for a bounded
	// time, together with the storage key the caller must echo back
	// to the transcription endpoint.
	PresignUpload(ctx context.Context, filename, contentType string) (uploadURL, key string, err error)

	// Download fetches the staged object's bytes.
	Download(ctx context.Context, key string) ([]byte, error)

	// Delete removes the staged object.
	Delete(ctx context.Context, key string) error
}
