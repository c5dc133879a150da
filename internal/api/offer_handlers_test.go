package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadImage runs the full signed-upload flow and returns the temporary key.
func (ts *testServer) uploadImage(t *testing.T, token, content string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/images/sign", bearer(token), map[string]any{
		"content_type":   "image/jpeg",
		"content_length": len(content),
	})
	require.Equal(t, http.StatusOK, resp.Code, "sign failed: %s", resp.Body.String())

	var envelope testEnvelope[SignUploadResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, strings.HasPrefix(envelope.Data.Key, "pre-"))

	// PUT the bytes at the signed URL.
	u, err := url.Parse(envelope.Data.URL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, u.Path+"?"+u.RawQuery, strings.NewReader(content))
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, "upload failed: %s", rec.Body.String())

	return envelope.Data.Key
}

// seedCatalog creates a category, product and commerce through the API.
func (ts *testServer) seedCatalog(t *testing.T, token string) (productID, commerceID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/categories", bearer(token), map[string]any{"name": "groceries"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var catEnv testEnvelope[CategoryResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &catEnv))

	resp = ts.api.Post("/api/v1/products", bearer(token), map[string]any{
		"name":        "milk",
		"category_id": catEnv.Data.ID,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var prodEnv testEnvelope[ProductResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &prodEnv))

	resp = ts.api.Post("/api/v1/commerces", bearer(token), map[string]any{
		"name":    "corner-shop",
		"address": "123 Main St",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var commEnv testEnvelope[CommerceResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &commEnv))

	return prodEnv.Data.ID, commEnv.Data.ID
}

func TestPublishOffer_FullFlow(t *testing.T) {
	ts := newTestServer(t)

	token, userID := ts.registerUser(t, "author@example.com")
	productID, commerceID := ts.seedCatalog(t, token)
	key := ts.uploadImage(t, token, "jpeg-bytes")

	resp := ts.api.Post("/api/v1/offers/publish", bearer(token), map[string]any{
		"product_id":     productID,
		"commerce_id":    commerceID,
		"price":          "10.50",
		"temp_image_key": key,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[PublishOfferResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "created", envelope.Data.Outcome)
	assert.Equal(t, "10.50", envelope.Data.Offer.Price)
	assert.Equal(t, userID, envelope.Data.Offer.AuthorID)
	assert.Contains(t, envelope.Data.Offer.ImageURL, "/images/")

	// The promoted image is publicly served.
	imageURL, err := url.Parse(envelope.Data.Offer.ImageURL)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, imageURL.Path, nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jpeg-bytes", rec.Body.String())
}

func TestPublishOffer_DuplicateAndCollaboration(t *testing.T) {
	ts := newTestServer(t)

	authorToken, _ := ts.registerUser(t, "author@example.com")
	otherToken, _ := ts.registerUser(t, "other@example.com")
	productID, commerceID := ts.seedCatalog(t, authorToken)

	body := map[string]any{
		"product_id":     productID,
		"commerce_id":    commerceID,
		"price":          "10.50",
		"temp_image_key": ts.uploadImage(t, authorToken, "img-1"),
	}
	resp := ts.api.Post("/api/v1/offers/publish", bearer(authorToken), body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Same author, same day: no-op.
	body["temp_image_key"] = ts.uploadImage(t, authorToken, "img-2")
	resp = ts.api.Post("/api/v1/offers/publish", bearer(authorToken), body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[PublishOfferResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "duplicate", envelope.Data.Outcome)

	// Different author: collaboration.
	body["temp_image_key"] = ts.uploadImage(t, otherToken, "img-3")
	resp = ts.api.Post("/api/v1/offers/publish", bearer(otherToken), body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "collaborated", envelope.Data.Outcome)

	// Exactly one offer exists, and it shows one collaboration in the feed.
	resp = ts.api.Get("/api/v1/offers/count")
	require.Equal(t, http.StatusOK, resp.Code)
	var countEnv testEnvelope[map[string]int64]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &countEnv))
	assert.Equal(t, int64(1), countEnv.Data["count"])

	resp = ts.api.Get("/api/v1/offers/daily-best")
	require.Equal(t, http.StatusOK, resp.Code)
	var feedEnv testEnvelope[[]RankedOfferResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &feedEnv))
	require.Len(t, feedEnv.Data, 1)
	assert.Equal(t, 1, feedEnv.Data[0].Collaborations)
}

func TestPublishOffer_MissingImage(t *testing.T) {
	ts := newTestServer(t)

	token, _ := ts.registerUser(t, "author@example.com")
	productID, commerceID := ts.seedCatalog(t, token)

	resp := ts.api.Post("/api/v1/offers/publish", bearer(token), map[string]any{
		"product_id":     productID,
		"commerce_id":    commerceID,
		"price":          "10.50",
		"temp_image_key": "pre-never-uploaded.jpg",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "IMAGE_NOT_FOUND")
}

func TestPublishOffer_RequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.api.Post("/api/v1/offers/publish", map[string]any{
		"product_id":     "x",
		"commerce_id":    "y",
		"price":          "1.00",
		"temp_image_key": "pre-z",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestDeleteOwnOffer(t *testing.T) {
	ts := newTestServer(t)

	authorToken, _ := ts.registerUser(t, "author@example.com")
	otherToken, _ := ts.registerUser(t, "other@example.com")
	productID, commerceID := ts.seedCatalog(t, authorToken)

	resp := ts.api.Post("/api/v1/offers/publish", bearer(authorToken), map[string]any{
		"product_id":     productID,
		"commerce_id":    commerceID,
		"price":          "10.50",
		"temp_image_key": ts.uploadImage(t, authorToken, "img-1"),
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[PublishOfferResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	offerID := envelope.Data.Offer.ID

	// A different user cannot delete it.
	resp = ts.api.Delete("/api/v1/offers/"+offerID, bearer(otherToken))
	assert.Equal(t, http.StatusForbidden, resp.Code, resp.Body.String())

	// The author can.
	resp = ts.api.Delete("/api/v1/offers/"+offerID, bearer(authorToken))
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// Deleting again is a 404.
	resp = ts.api.Delete("/api/v1/offers/"+offerID, bearer(authorToken))
	assert.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())
}

func TestGetOffersByProduct(t *testing.T) {
	ts := newTestServer(t)

	token, _ := ts.registerUser(t, "author@example.com")
	productID, commerceID := ts.seedCatalog(t, token)

	resp := ts.api.Post("/api/v1/offers/publish", bearer(token), map[string]any{
		"product_id":     productID,
		"commerce_id":    commerceID,
		"price":          "10.50",
		"temp_image_key": ts.uploadImage(t, token, "img-1"),
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/products/" + productID + "/offers")
	require.Equal(t, http.StatusOK, resp.Code)

	var listEnv testEnvelope[[]OfferResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listEnv))
	assert.Len(t, listEnv.Data, 1)

	// The caller's own offers endpoint returns the same offer.
	resp = ts.api.Get("/api/v1/offers/mine", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &listEnv))
	assert.Len(t, listEnv.Data, 1)
}

func TestServeImage_TempNamespaceIsPrivate(t *testing.T) {
	ts := newTestServer(t)

	token, _ := ts.registerUser(t, "author@example.com")
	key := ts.uploadImage(t, token, "staged-bytes")

	// The staged object exists in storage but must not be publicly served
	// until an offer promotes it.
	req := httptest.NewRequest(http.MethodGet, "/images/"+key, nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpload_RejectsTamperedSignature(t *testing.T) {
	ts := newTestServer(t)

	token, _ := ts.registerUser(t, "author@example.com")

	resp := ts.api.Post("/api/v1/images/sign", bearer(token), map[string]any{
		"content_type":   "image/jpeg",
		"content_length": 9,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[SignUploadResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	u, err := url.Parse(envelope.Data.URL)
	require.NoError(t, err)

	// Flip the declared length without re-signing.
	q := u.Query()
	q.Set("len", "999")
	req := httptest.NewRequest(http.MethodPut, u.Path+"?"+q.Encode(), strings.NewReader("oversized"))
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
