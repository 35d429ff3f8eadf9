package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/fhuszti/stored-images-ms-go/internal/repository/mariadb"
	"github.com/fhuszti/stored-images-ms-go/internal/router"
)

const apiPrefix = "/api/image-storage"

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Count   *int              `json:"count"`
	Exists  *bool             `json:"exists"`
	Errors  map[string]string `json:"errors"`
	Data    json.RawMessage   `json:"data"`
}

// startAPI serves the full router on top of db and returns the server base URL.
func startAPI(t *testing.T, db *sql.DB, tasks port.TaskDispatcher) string {
	t.Helper()

	svc := router.NewServices(mariadb.NewImageRepository(db), tasks, 50, 0)
	srv := httptest.NewServer(router.New(context.Background(), router.Options{APIPrefix: apiPrefix}, svc))
	t.Cleanup(srv.Close)
	return srv.URL + apiPrefix
}

func call(t *testing.T, method, url string, body any) (int, envelope) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rdr)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode %s %s response %q: %v", method, url, raw, err)
	}
	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return out
}

func createBody(mayoImageID, orgUnitID, d2lImageURL string) map[string]any {
	return map[string]any{
		"mayoImageId":      mayoImageID,
		"mayoImageTitle":   "T",
		"mayoThumbnailUrl": "u1",
		"mayoFullImageUrl": "u2",
		"d2lImageUrl":      d2lImageURL,
		"d2lOrgUnitId":     orgUnitID,
		"d2lFileName":      "f",
		"d2lFilePath":      "/p",
		"insertedBy":       "u1",
	}
}
