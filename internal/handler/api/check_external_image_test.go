package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fhuszti/stored-images-ms-go/internal/mock"
	"github.com/fhuszti/stored-images-ms-go/internal/model"
)

func TestCheckExternalImageHandler(t *testing.T) {
	tests := []struct {
		name       string
		out        *model.StoredImage
		svcErr     error
		wantStatus int
		wantExists bool
	}{
		{"exists", sampleImage(1), nil, http.StatusOK, true},
		{"missing", nil, nil, http.StatusOK, false},
		{"error", nil, errors.New("db down"), http.StatusInternalServerError, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mock.ExternalImageFinder{Out: tc.out, Err: tc.svcErr}
			req := withURLParams(httptest.NewRequest(http.MethodGet, "/mayo/m1/org/A/exists", nil),
				"mayoImageId", "m1", "orgUnitId", "A")
			rec := httptest.NewRecorder()

			CheckExternalImageHandler(svc)(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tc.wantStatus)
			}
			if svc.MayoImageID != "m1" || svc.OrgUnitID != "A" {
				t.Errorf("service got %q/%q", svc.MayoImageID, svc.OrgUnitID)
			}
			body := decodeBody(t, rec)
			if tc.svcErr != nil {
				return
			}
			if body["exists"] != tc.wantExists {
				t.Errorf("exists = %v; want %v", body["exists"], tc.wantExists)
			}
			data, present := body["data"]
			if !present {
				t.Fatal("data key must always be present")
			}
			if tc.wantExists && data == nil {
				t.Error("data should hold the record")
			}
			if !tc.wantExists && data != nil {
				t.Errorf("data = %v; want null", data)
			}
		})
	}
}
