// Package stardotstest provides an in-memory StarDots server for tests.
//
// The server verifies the authentication headers of every request the same
// way the real service does, keeps spaces and files in memory and answers
// with real response envelopes.
package stardotstest

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stardots-io/stardots-sdk-go/pkg/api"
	"github.com/stardots-io/stardots-sdk-go/pkg/stardots"
)

// Business codes returned in the envelope.
const (
	CodeOK           = 200
	CodeBadRequest   = 40000
	CodeUnauthorized = 40100
	CodeNotFound     = 40400
	CodeConflict     = 40900
)

// RecordedRequest is a request as the server received it.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Server is a fake StarDots API. Its zero value is not usable; call NewServer.
type Server struct {
	URL string

	srv    *httptest.Server
	key    string
	secret string

	mu       sync.Mutex
	spaces   map[string]*space
	nonces   map[string]struct{}
	requests []RecordedRequest
	seq      int64
}

type space struct {
	public    bool
	createdAt time.Time
	files     map[string]*file
}

type file struct {
	name       string
	data       []byte
	uploadedAt time.Time
	seq        int64
}

// NewServer starts a server accepting the key/secret pair. It is closed
// when the test finishes.
func NewServer(t testing.TB, key, secret string) *Server {
	t.Helper()

	s := &Server{
		key:    key,
		secret: secret,
		spaces: make(map[string]*space),
		nonces: make(map[string]struct{}),
	}
	s.srv = httptest.NewServer(s.routes())
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// Close shuts the server down early.
func (s *Server) Close() {
	s.srv.Close()
}

// Requests returns the requests received so far, in order.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// LastRequest returns the most recent request, or false if none arrived.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// FileContent returns the stored bytes of a file.
func (s *Server) FileContent(spaceName, filename string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.spaces[spaceName]
	if !ok {
		return nil, false
	}
	f, ok := sp.files[filename]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), f.data...), true
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Use(s.authenticate)

	r.Route("/openapi", func(r chi.Router) {
		r.Get("/space/list", s.handleSpaceList)
		r.Put("/space/create", s.handleCreateSpace)
		r.Delete("/space/delete", s.handleDeleteSpace)
		r.Post("/space/accessibility/toggle", s.handleToggleSpace)
		r.Get("/file/list", s.handleFileList)
		r.Post("/file/ticket", s.handleTicket)
		r.Put("/file/upload", s.handleUpload)
		r.Delete("/file/delete", s.handleDeleteFile)
	})
	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			s.fail(w, http.StatusBadRequest, CodeBadRequest, "read body: "+err.Error())
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts := r.Header.Get(stardots.HeaderTimestamp)
		nonce := r.Header.Get(stardots.HeaderNonce)
		key := r.Header.Get(stardots.HeaderKey)
		sign := r.Header.Get(stardots.HeaderSign)

		switch {
		case ts == "" || nonce == "" || key == "" || sign == "" || r.Header.Get(stardots.HeaderExtra) == "":
			s.fail(w, http.StatusUnauthorized, CodeUnauthorized, "missing authentication headers")
			return
		case key != s.key:
			s.fail(w, http.StatusUnauthorized, CodeUnauthorized, "unknown client key")
			return
		case sign != stardots.Sign(ts, s.secret, nonce):
			s.fail(w, http.StatusUnauthorized, CodeUnauthorized, "signature mismatch")
			return
		}

		s.mu.Lock()
		_, replayed := s.nonces[nonce]
		s.nonces[nonce] = struct{}{}
		s.mu.Unlock()
		if replayed {
			s.fail(w, http.StatusUnauthorized, CodeUnauthorized, "nonce already used")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleSpaceList(w http.ResponseWriter, r *http.Request) {
	page, pageSize, ok := s.paging(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	names := make([]string, 0, len(s.spaces))
	for name := range s.spaces {
		names = append(names, name)
	}
	sort.Strings(names)
	infos := make([]api.SpaceInfo, 0, len(names))
	for _, name := range paginate(names, page, pageSize) {
		sp := s.spaces[name]
		infos = append(infos, api.SpaceInfo{
			Name:      name,
			Public:    sp.public,
			CreatedAt: sp.createdAt.Unix(),
			FileCount: len(sp.files),
		})
	}
	s.mu.Unlock()

	s.ok(w, "ok", infos)
}

func (s *Server) handleCreateSpace(w http.ResponseWriter, r *http.Request) {
	var body api.CreateSpaceJSONRequestBody
	if !s.decode(w, r, &body) {
		return
	}
	if !stardots.ValidSpaceName(body.Space) {
		s.reject(w, CodeBadRequest, "space name must be 4-15 letters or digits")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.spaces[body.Space]; exists {
		s.reject(w, CodeConflict, "space already exists")
		return
	}
	s.spaces[body.Space] = &space{
		public:    body.Public != nil && *body.Public,
		createdAt: time.Now(),
		files:     make(map[string]*file),
	}
	s.ok(w, "ok", nil)
}

func (s *Server) handleDeleteSpace(w http.ResponseWriter, r *http.Request) {
	var body api.DeleteSpaceJSONRequestBody
	if !s.decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.spaces[body.Space]
	if !ok {
		s.reject(w, CodeNotFound, "space not found")
		return
	}
	if len(sp.files) > 0 {
		s.reject(w, CodeConflict, "space is not empty")
		return
	}
	delete(s.spaces, body.Space)
	s.ok(w, "ok", nil)
}

func (s *Server) handleToggleSpace(w http.ResponseWriter, r *http.Request) {
	var body api.ToggleSpaceAccessibilityJSONRequestBody
	if !s.decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.spaces[body.Space]
	if !ok {
		s.reject(w, CodeNotFound, "space not found")
		return
	}
	sp.public = body.Public
	s.ok(w, "ok", nil)
}

func (s *Server) handleFileList(w http.ResponseWriter, r *http.Request) {
	page, pageSize, ok := s.paging(w, r)
	if !ok {
		return
	}
	spaceName := r.URL.Query().Get("space")

	s.mu.Lock()
	defer s.mu.Unlock()
	sp, found := s.spaces[spaceName]
	if !found {
		s.reject(w, CodeNotFound, "space not found")
		return
	}

	files := make([]*file, 0, len(sp.files))
	for _, f := range sp.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].seq > files[j].seq })

	list := make([]api.FileInfo, 0, len(files))
	for _, f := range paginate(files, page, pageSize) {
		list = append(list, api.FileInfo{
			Name:       f.name,
			ByteSize:   int64(len(f.data)),
			Size:       fmt.Sprintf("%d B", len(f.data)),
			UploadedAt: f.uploadedAt.Unix(),
			Url:        s.fileURL(spaceName, sp, f.name),
		})
	}
	s.ok(w, "ok", api.SpaceFileListData{List: list})
}

func (s *Server) handleTicket(w http.ResponseWriter, r *http.Request) {
	var body api.FileAccessTicketJSONRequestBody
	if !s.decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.spaces[body.Space]
	if !ok {
		s.reject(w, CodeNotFound, "space not found")
		return
	}
	if _, ok := sp.files[body.Filename]; !ok {
		s.reject(w, CodeNotFound, "file not found")
		return
	}
	s.ok(w, "ok", api.FileAccessTicketData{Ticket: newTicket()})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		s.fail(w, http.StatusBadRequest, CodeBadRequest, "upload must be multipart/form-data")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.fail(w, http.StatusBadRequest, CodeBadRequest, "parse form: "+err.Error())
		return
	}
	spaceName := r.FormValue("space")
	part, header, err := r.FormFile("file")
	if err != nil {
		s.reject(w, CodeBadRequest, "missing file part")
		return
	}
	defer func() { _ = part.Close() }()
	data, err := io.ReadAll(part)
	if err != nil {
		s.fail(w, http.StatusBadRequest, CodeBadRequest, "read file: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.spaces[spaceName]
	if !ok {
		s.reject(w, CodeNotFound, "space not found")
		return
	}
	s.seq++
	sp.files[header.Filename] = &file{
		name:       header.Filename,
		data:       data,
		uploadedAt: time.Now(),
		seq:        s.seq,
	}
	s.ok(w, "ok", api.UploadFileData{
		Space:    spaceName,
		Filename: header.Filename,
		Url:      s.fileURL(spaceName, sp, header.Filename),
	})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	var body api.DeleteFileJSONRequestBody
	if !s.decode(w, r, &body) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.spaces[body.Space]
	if !ok {
		s.reject(w, CodeNotFound, "space not found")
		return
	}
	for _, name := range body.FilenameList {
		delete(sp.files, name)
	}
	s.ok(w, "ok", nil)
}

// fileURL must be called with s.mu held.
func (s *Server) fileURL(spaceName string, sp *space, filename string) string {
	u := s.URL + "/" + url.PathEscape(spaceName) + "/" + url.PathEscape(filename)
	if !sp.public {
		u += "?ticket=" + newTicket()
	}
	return u
}

func (s *Server) paging(w http.ResponseWriter, r *http.Request) (page, pageSize int, ok bool) {
	page, pageSize = 1, 20
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.reject(w, CodeBadRequest, "invalid page")
			return 0, 0, false
		}
		page = n
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			s.reject(w, CodeBadRequest, "invalid pageSize")
			return 0, 0, false
		}
		pageSize = n
	}
	return page, pageSize, true
}

func paginate[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.fail(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

type envelope struct {
	api.CommonResponse
	Data any `json:"data"`
}

func (s *Server) ok(w http.ResponseWriter, msg string, data any) {
	s.write(w, http.StatusOK, CodeOK, true, msg, data)
}

// reject answers a business failure: HTTP 200 with success false.
func (s *Server) reject(w http.ResponseWriter, code int, msg string) {
	s.write(w, http.StatusOK, code, false, msg, nil)
}

// fail answers a protocol failure with a non-2xx status.
func (s *Server) fail(w http.ResponseWriter, status, code int, msg string) {
	s.write(w, status, code, false, msg, nil)
}

func (s *Server) write(w http.ResponseWriter, status, code int, success bool, msg string, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		CommonResponse: api.CommonResponse{
			Code:      code,
			Message:   msg,
			RequestId: newTicket(),
			Success:   success,
			Ts:        time.Now().UnixMilli(),
		},
		Data: data,
	})
}

func newTicket() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
