package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fhuszti/stored-images-ms-go/internal/api_context"
	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
	"github.com/go-chi/chi/v5"
)

var validID = uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

func withURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func withID(req *http.Request, id uuid.UUID) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), api_context.IDKey, id))
}

func sampleImage(usage int) *model.StoredImage {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return &model.StoredImage{
		ID:               validID,
		MayoImageID:      "m1",
		MayoImageTitle:   "T",
		MayoThumbnailURL: "u1",
		MayoFullImageURL: "u2",
		D2LImageURL:      "d1",
		D2LOrgUnitID:     "org1",
		D2LFileName:      "f",
		D2LFilePath:      "/p",
		InsertedBy:       "u1",
		InsertedAt:       now,
		Status:           model.ImageStatusActive,
		UsageCount:       usage,
		LastUsed:         now,
		Tags:             model.Tags{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return m
}
