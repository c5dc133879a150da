// Package objstore provides the object storage collaborator for offer
// images: presigned uploads into a temporary namespace, and the head, copy
// and delete primitives the promotion flow is built on.
package objstore

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned when a key does not exist in storage.
var ErrObjectNotFound = errors.New("objstore: object not found")

// ObjectInfo describes a stored object, as returned by a metadata-only
// existence check.
type ObjectInfo struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// PutRequest describes a pending upload for presigning.
type PutRequest struct {
	Key           string
	ContentType   string
	ContentLength int64
	// Metadata tags the object, e.g. with the uploading user's ID.
	Metadata map[string]string
	Expiry   time.Duration
}

// Store is the object storage collaborator. Implementations must treat keys
// as opaque flat identifiers; the temporary namespace is expressed purely
// through a key prefix.
type Store interface {
	// Head performs a metadata-only existence check.
	// Returns ErrObjectNotFound if the key is absent.
	Head(ctx context.Context, key string) (*ObjectInfo, error)

	// Copy duplicates srcKey's content under dstKey. The source is left
	// untouched.
	Copy(ctx context.Context, srcKey, dstKey string) error

	// Delete removes the object. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// PresignPut returns a time-limited URL the client can PUT the object
	// body to.
	PresignPut(ctx context.Context, req PutRequest) (string, error)

	// Open returns the object content for reading.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// List returns all objects whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// PublicURL returns the deterministic address of a permanent object.
	PublicURL(key string) string
}
