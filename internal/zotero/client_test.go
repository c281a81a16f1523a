package zotero

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("12345",
		WithBaseURL(srv.URL),
		WithAPIKey("test-key"),
		WithHTTPClient(srv.Client()),
	)
	return c, srv
}

func TestCurrentKey(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/keys/current" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Zotero-API-Key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		if got := r.Header.Get("Zotero-API-Version"); got != "3" {
			t.Errorf("api version header = %q", got)
		}
		fmt.Fprint(w, `{"key":"test-key","userID":12345,"username":"hk","access":{"user":{"library":true,"write":true,"files":true}}}`)
	}))

	info, err := c.CurrentKey(context.Background())
	if err != nil {
		t.Fatalf("CurrentKey: %v", err)
	}
	if info.UserID != 12345 || !info.Access.User.Write {
		t.Errorf("KeyInfo = %+v", info)
	}
}

func TestItemsPaging(t *testing.T) {
	page := func(n int) []Item {
		items := make([]Item, n)
		for i := range items {
			items[i].Key = fmt.Sprintf("K%d", i)
		}
		return items
	}

	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		enc := json.NewEncoder(w)
		if start == 0 {
			enc.Encode(page(DefaultPageSize))
			return
		}
		enc.Encode(page(3))
	}))

	items, err := c.Items(context.Background())
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != DefaultPageSize+3 {
		t.Errorf("got %d items, want %d", len(items), DefaultPageSize+3)
	}
}

func TestSearchItemsEscapesQuery(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "乡村 AI" {
			t.Errorf("q = %q", got)
		}
		fmt.Fprint(w, `[{"key":"Q1","data":{"title":"乡村 AI"}}]`)
	}))

	items, err := c.SearchItems(context.Background(), "乡村 AI", 10)
	if err != nil {
		t.Fatalf("SearchItems: %v", err)
	}
	if len(items) != 1 || items[0].Data.Title != "乡村 AI" {
		t.Errorf("items = %+v", items)
	}
}

func TestAuthError(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := c.Items(context.Background())
	if !IsAuthError(err) {
		t.Errorf("want auth error, got %v", err)
	}
}

func TestRateLimitedError(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.CurrentKey(context.Background())
	if !IsRateLimited(err) {
		t.Errorf("want rate limit error, got %v", err)
	}
}

func TestCreateAttachment(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/12345/items" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		var payload []map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		if payload[0]["itemType"] != "attachment" || payload[0]["parentItem"] != "PARENT1" {
			t.Errorf("payload = %v", payload[0])
		}
		fmt.Fprint(w, `{"successful":{"0":{"key":"ATTACH1"}},"failed":{}}`)
	}))

	key, err := c.CreateAttachment(context.Background(), "PARENT1", "paper.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("CreateAttachment: %v", err)
	}
	if key != "ATTACH1" {
		t.Errorf("key = %q", key)
	}
}

func TestCreateAttachmentFailure(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"successful":{},"failed":{"0":{"code":400,"message":"parent not found"}}}`)
	}))

	_, err := c.CreateAttachment(context.Background(), "BADKEY", "paper.pdf", "application/pdf")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "parent not found" {
		t.Errorf("want APIError with server message, got %v", err)
	}
}

func TestUploadAttachmentFullFlow(t *testing.T) {
	file := filepath.Join(t.TempDir(), "paper.pdf")
	content := []byte("%PDF-1.4 test content")
	if err := os.WriteFile(file, content, 0o644); err != nil {
		t.Fatal(err)
	}

	var (
		authorized bool
		stored     bool
		registered bool
	)
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/users/12345/items/ATTACH1/file", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if upload := r.FormValue("upload"); upload != "" {
			if upload != "UPKEY" {
				t.Errorf("register upload key = %q", upload)
			}
			registered = true
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.FormValue("md5") == "" || r.FormValue("filename") != "paper.pdf" {
			t.Errorf("authorization form = %v", r.Form)
		}
		authorized = true
		fmt.Fprintf(w, `{"url":%q,"contentType":"multipart/form-data","prefix":"PRE","suffix":"SUF","uploadKey":"UPKEY"}`,
			srvURL+"/storage")
	})
	mux.HandleFunc("/storage", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		want := "PRE" + string(content) + "SUF"
		if string(body) != want {
			t.Errorf("storage body = %q, want %q", body, want)
		}
		stored = true
		w.WriteHeader(http.StatusCreated)
	})

	c, srv := testClient(t, mux)
	srvURL = srv.URL

	if err := c.UploadAttachment(context.Background(), "ATTACH1", file); err != nil {
		t.Fatalf("UploadAttachment: %v", err)
	}
	if !authorized || !stored || !registered {
		t.Errorf("flow = authorized %v stored %v registered %v", authorized, stored, registered)
	}
}

func TestUploadAttachmentAlreadyExists(t *testing.T) {
	file := filepath.Join(t.TempDir(), "paper.pdf")
	if err := os.WriteFile(file, []byte("pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"exists":1}`)
	}))

	if err := c.UploadAttachment(context.Background(), "ATTACH1", file); err != nil {
		t.Fatalf("existing upload should be success, got %v", err)
	}
}
