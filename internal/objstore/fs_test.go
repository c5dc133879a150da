package objstore

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	s, err := NewFS(t.TempDir(), "http://localhost:8080", "/api/v1/uploads", []byte("test-signing-key"))
	require.NoError(t, err)
	return s
}

func putObject(t *testing.T, s *FS, key, content string) {
	t.Helper()
	err := s.Put(context.Background(), key, strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)
}

func TestHead(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()

	putObject(t, s, "pre-abc", "image-bytes")

	info, err := s.Head(ctx, "pre-abc")
	require.NoError(t, err)
	assert.Equal(t, "pre-abc", info.Key)
	assert.Equal(t, int64(len("image-bytes")), info.Size)

	_, err = s.Head(ctx, "missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestCopy_LeavesSourceIntact(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()

	putObject(t, s, "pre-abc", "image-bytes")

	require.NoError(t, s.Copy(ctx, "pre-abc", "abc"))

	for _, key := range []string{"pre-abc", "abc"} {
		rc, err := s.Open(ctx, key)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		assert.Equal(t, "image-bytes", string(data))
	}
}

func TestCopy_MissingSource(t *testing.T) {
	s := newTestFS(t)
	err := s.Copy(context.Background(), "pre-missing", "missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()

	putObject(t, s, "pre-abc", "x")
	require.NoError(t, s.Delete(ctx, "pre-abc"))

	_, err := s.Head(ctx, "pre-abc")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// Second delete is not an error.
	assert.NoError(t, s.Delete(ctx, "pre-abc"))
}

func TestPresignPut_RoundTrip(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()

	signed, err := s.PresignPut(ctx, PutRequest{
		Key:           "pre-abc",
		ContentType:   "image/jpeg",
		ContentLength: 123,
		Metadata:      map[string]string{"uploader": "user-1"},
		Expiry:        time.Minute,
	})
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/uploads/pre-abc", u.Path)
	assert.Equal(t, "user-1", u.Query().Get("x-meta-uploader"))

	exp, err := strconv.ParseInt(u.Query().Get("exp"), 10, 64)
	require.NoError(t, err)

	err = s.VerifyPut("pre-abc", "image/jpeg", 123, exp, u.Query().Get("sig"))
	assert.NoError(t, err)

	// Tampering with any signed parameter must fail verification.
	assert.Error(t, s.VerifyPut("pre-abc", "image/png", 123, exp, u.Query().Get("sig")))
	assert.Error(t, s.VerifyPut("pre-abc", "image/jpeg", 999, exp, u.Query().Get("sig")))
	assert.Error(t, s.VerifyPut("pre-other", "image/jpeg", 123, exp, u.Query().Get("sig")))
}

func TestVerifyPut_Expired(t *testing.T) {
	s := newTestFS(t)

	expired := time.Now().Add(-time.Minute).Unix()
	sig := s.sign("pre-abc", "image/jpeg", 123, expired)

	err := s.VerifyPut("pre-abc", "image/jpeg", 123, expired, sig)
	assert.Error(t, err)
}

func TestPut_RejectsOversizedBody(t *testing.T) {
	s := newTestFS(t)

	err := s.Put(context.Background(), "pre-abc", strings.NewReader("0123456789"), 5)
	assert.Error(t, err)

	_, headErr := s.Head(context.Background(), "pre-abc")
	assert.ErrorIs(t, headErr, ErrObjectNotFound)
}

func TestList_FiltersByPrefix(t *testing.T) {
	s := newTestFS(t)
	ctx := context.Background()

	putObject(t, s, "pre-one", "1")
	putObject(t, s, "pre-two", "2")
	putObject(t, s, "permanent", "3")

	infos, err := s.List(ctx, "pre-")
	require.NoError(t, err)
	assert.Len(t, infos, 2)
	for _, info := range infos {
		assert.True(t, strings.HasPrefix(info.Key, "pre-"))
	}
}

func TestPath_RejectsTraversal(t *testing.T) {
	s := newTestFS(t)

	for _, key := range []string{"../etc/passwd", "a/b", "", ".hidden", "..", "pre-abc/../x"} {
		_, err := s.Head(context.Background(), key)
		assert.Error(t, err, "key %q should be rejected", key)
	}
}

func TestPublicURL(t *testing.T) {
	s := newTestFS(t)
	assert.Equal(t, "http://localhost:8080/images/abc", s.PublicURL("abc"))
}
