package objstore

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// keyPattern restricts keys to flat, URL-safe names. Anything with path
// separators or dots-only segments never reaches the filesystem.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// FS is a filesystem-backed Store. Presigned PUT URLs point back at this
// server's upload endpoint and carry an HMAC over the upload parameters, so
// the handler accepts exactly what was signed and nothing else.
//
// Thread-safe for concurrent operations.
type FS struct {
	baseDir   string
	baseURL   string // public base URL of this server, no trailing slash
	uploadURL string // path prefix of the upload endpoint
	signKey   []byte
	mu        sync.RWMutex
}

// NewFS creates a filesystem store rooted at baseDir.
// baseURL is the externally reachable server address; uploadPath is the
// route presigned PUTs resolve to (e.g. "/api/v1/uploads").
func NewFS(baseDir, baseURL, uploadPath string, signKey []byte) (*FS, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory cannot be empty")
	}
	if len(signKey) == 0 {
		return nil, fmt.Errorf("signing key cannot be empty")
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FS{
		baseDir:   baseDir,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		uploadURL: strings.TrimSuffix(uploadPath, "/"),
		signKey:   signKey,
	}, nil
}

// Head performs a metadata-only existence check via stat.
func (s *FS) Head(_ context.Context, key string) (*ObjectInfo, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}

	return &ObjectInfo{Key: key, Size: fi.Size(), ModTime: fi.ModTime()}, nil
}

// Copy duplicates srcKey's content under dstKey, leaving the source intact.
func (s *FS) Copy(_ context.Context, srcKey, dstKey string) error {
	srcPath, err := s.path(srcKey)
	if err != nil {
		return err
	}
	dstPath, err := s.path(dstKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("open source object %s: %w", srcKey, err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(s.baseDir, ".copy-*")
	if err != nil {
		return fmt.Errorf("create destination object: %w", err)
	}
	tmpName := dst.Name()

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(tmpName)
		return fmt.Errorf("copy object %s -> %s: %w", srcKey, dstKey, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("flush destination object: %w", err)
	}

	if err := os.Rename(tmpName, dstPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("finalize destination object %s: %w", dstKey, err)
	}
	return nil
}

// Delete removes an object. Deleting an absent key is not an error.
func (s *FS) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// PresignPut builds a signed upload URL pointing at this server's upload
// endpoint. The signature covers key, content type, length and expiry, so
// the upload handler rejects any PUT that deviates from what was signed.
func (s *FS) PresignPut(_ context.Context, req PutRequest) (string, error) {
	if _, err := s.path(req.Key); err != nil {
		return "", err
	}
	if req.ContentLength <= 0 {
		return "", fmt.Errorf("content length must be positive")
	}

	expires := time.Now().Add(req.Expiry).Unix()
	sig := s.sign(req.Key, req.ContentType, req.ContentLength, expires)

	q := url.Values{}
	q.Set("ct", req.ContentType)
	q.Set("len", strconv.FormatInt(req.ContentLength, 10))
	q.Set("exp", strconv.FormatInt(expires, 10))
	for k, v := range req.Metadata {
		q.Set("x-meta-"+k, v)
	}
	q.Set("sig", sig)

	return s.baseURL + s.uploadURL + "/" + req.Key + "?" + q.Encode(), nil
}

// VerifyPut checks an upload's parameters against its signature. Metadata is
// informational and not part of the signature.
func (s *FS) VerifyPut(key, contentType string, contentLength int64, expires int64, sig string) error {
	if time.Now().Unix() > expires {
		return fmt.Errorf("upload URL expired")
	}
	expected := s.sign(key, contentType, contentLength, expires)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return fmt.Errorf("invalid upload signature")
	}
	return nil
}

// Put writes an uploaded object body. Called by the upload handler after
// VerifyPut succeeds.
func (s *FS) Put(_ context.Context, key string, r io.Reader, maxLength int64) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.CreateTemp(s.baseDir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create object %s: %w", key, err)
	}
	tmpName := f.Name()

	n, err := io.Copy(f, io.LimitReader(r, maxLength+1))
	if err != nil {
		f.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write object %s: %w", key, err)
	}
	if n > maxLength {
		f.Close()
		os.Remove(tmpName)
		return fmt.Errorf("object %s exceeds declared length %d", key, maxLength)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("flush object %s: %w", key, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("finalize object %s: %w", key, err)
	}
	return nil
}

// Open returns the object content for reading.
func (s *FS) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	return f, nil
}

// List returns all objects whose key starts with prefix.
func (s *FS) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	var infos []ObjectInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !keyPattern.MatchString(name) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, ObjectInfo{Key: name, Size: fi.Size(), ModTime: fi.ModTime()})
	}
	return infos, nil
}

// PublicURL returns the deterministic address of a permanent object.
func (s *FS) PublicURL(key string) string {
	return s.baseURL + "/images/" + key
}

// path validates the key and maps it into the storage directory.
func (s *FS) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.baseDir, key), nil
}

// sign computes the HMAC-SHA256 upload signature.
func (s *FS) sign(key, contentType string, contentLength, expires int64) string {
	mac := hmac.New(sha256.New, s.signKey)
	fmt.Fprintf(mac, "%s\n%s\n%d\n%d", key, contentType, contentLength, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
