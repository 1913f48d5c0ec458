package drive

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

type fakeRequest struct {
	Method string
	FileID string
	Query  map[string]string
	Body   map[string]any
}

// fakeDrive serves the subset of the Drive v3 REST surface the service uses.
type fakeDrive struct {
	mu       sync.Mutex
	requests []fakeRequest
	files    map[string]map[string]any
	content  map[string][]byte
	pages    [][]map[string]any

	uploadedMeta   map[string]any
	uploadedBody   []byte
	uploadedType   string
	nextID         string
	failWithStatus int
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{
		files:   map[string]map[string]any{},
		content: map[string][]byte{},
		nextID:  "new-id",
	}
}

func (f *fakeDrive) record(r *http.Request, fileID string, body map[string]any) {
	q := map[string]string{}
	for k := range r.URL.Query() {
		q[k] = r.URL.Query().Get(k)
	}
	f.requests = append(f.requests, fakeRequest{Method: r.Method, FileID: fileID, Query: q, Body: body})
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := strings.LastIndex(r.URL.Path, "/files")
	if idx < 0 {
		http.NotFound(w, r)
		return
	}
	fileID := strings.TrimPrefix(r.URL.Path[idx+len("/files"):], "/")

	if f.failWithStatus != 0 {
		f.record(r, fileID, nil)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.failWithStatus)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": f.failWithStatus, "message": "fake failure"}})
		return
	}

	switch {
	case fileID == "" && r.Method == http.MethodGet:
		f.record(r, "", nil)
		page := 0
		if token := r.URL.Query().Get("pageToken"); token != "" {
			page = int(token[len(token)-1] - '0')
		}
		resp := map[string]any{"files": []map[string]any{}}
		if page < len(f.pages) {
			resp["files"] = f.pages[page]
			if page+1 < len(f.pages) {
				resp["nextPageToken"] = "page" + string(rune('0'+page+1))
			}
		}
		writeJSON(w, resp)

	case fileID == "" && r.Method == http.MethodPost:
		if r.URL.Query().Get("uploadType") != "" {
			f.readUpload(r)
			f.record(r, "", f.uploadedMeta)
		} else {
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			f.record(r, "", body)
			f.uploadedMeta = body
		}
		name, _ := f.uploadedMeta["name"].(string)
		writeJSON(w, map[string]any{"id": f.nextID, "name": name})

	case r.Method == http.MethodGet && r.URL.Query().Get("alt") == "media":
		f.record(r, fileID, nil)
		data, ok := f.content[fileID]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write(data)

	case r.Method == http.MethodGet:
		f.record(r, fileID, nil)
		file, ok := f.files[fileID]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]any{"error": map[string]any{"code": 404, "message": "File not found"}})
			return
		}
		writeJSON(w, file)

	case r.Method == http.MethodPatch:
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.record(r, fileID, body)
		writeJSON(w, map[string]any{"id": fileID})

	case r.Method == http.MethodDelete:
		f.record(r, fileID, nil)
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeDrive) readUpload(r *http.Request) {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return
	}
	mr := multipart.NewReader(r.Body, params["boundary"])

	metaPart, err := mr.NextPart()
	if err != nil {
		return
	}
	json.NewDecoder(metaPart).Decode(&f.uploadedMeta)

	mediaPart, err := mr.NextPart()
	if err != nil {
		return
	}
	f.uploadedType = mediaPart.Header.Get("Content-Type")
	f.uploadedBody, _ = io.ReadAll(mediaPart)
}

func (f *fakeDrive) lastRequest() fakeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func newTestService(t *testing.T, fake *fakeDrive) *Service {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := drive.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	return NewServiceFromClient(client, "root-folder", arbor.NewLogger())
}
