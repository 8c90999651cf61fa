package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	openapiTypes "github.com/oapi-codegen/runtime/types"
)

// stubDoer implements HttpRequestDoer for tests and captures the last request
type stubDoer struct {
	resp    *http.Response
	err     error
	lastReq *http.Request
}

func (s *stubDoer) Do(req *http.Request) (*http.Response, error) {
	s.lastReq = req
	if s.resp == nil {
		return newResp(http.StatusOK, `{"code":200,"message":"ok","requestId":"r","success":true,"ts":1}`, ""), s.err
	}
	return s.resp, s.err
}

func newResp(status int, body string, contentType string) *http.Response {
	if contentType == "" {
		contentType = "application/json"
	}
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{contentType}},
	}
}

func intPtr(v int) *int { return &v }

func TestWithBaseURL(t *testing.T) {
	c, err := NewClient("https://example.com")
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if c.Server != "https://example.com/" {
		t.Fatalf("unexpected initial server: %s", c.Server)
	}
	opt := WithBaseURL("https://api.test.local/base")
	if err := opt(c); err != nil {
		t.Fatalf("WithBaseURL error: %v", err)
	}
	if c.Server != "https://api.test.local/base" {
		t.Fatalf("server not updated: %s", c.Server)
	}
}

func TestNewGetSpaceListRequest(t *testing.T) {
	tests := []struct {
		name      string
		params    *GetSpaceListParams
		wantQuery map[string]string
	}{
		{name: "nil params", params: nil},
		{name: "unset fields", params: &GetSpaceListParams{}},
		{
			name:      "page only",
			params:    &GetSpaceListParams{PaginationParams{Page: intPtr(3)}},
			wantQuery: map[string]string{"page": "3"},
		},
		{
			name:      "page and size",
			params:    &GetSpaceListParams{PaginationParams{Page: intPtr(1), PageSize: intPtr(50)}},
			wantQuery: map[string]string{"page": "1", "pageSize": "50"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewGetSpaceListRequest("https://svc.local", tt.params)
			if err != nil {
				t.Fatalf("build req: %v", err)
			}
			if req.Method != http.MethodGet {
				t.Errorf("method: %s", req.Method)
			}
			if req.URL.Path != "/openapi/space/list" {
				t.Errorf("path: %s", req.URL.Path)
			}
			q := req.URL.Query()
			if len(q) != len(tt.wantQuery) {
				t.Errorf("expected %d query params, got %v", len(tt.wantQuery), q)
			}
			for k, v := range tt.wantQuery {
				if got := q[k]; len(got) != 1 || got[0] != v {
					t.Errorf("query %s: expected exactly [%s], got %v", k, v, got)
				}
			}
		})
	}
}

func TestNewGetSpaceFileListRequest(t *testing.T) {
	req, err := NewGetSpaceFileListRequest("https://svc.local/root", &GetSpaceFileListParams{Space: "demo"})
	if err != nil {
		t.Fatalf("build req: %v", err)
	}
	if req.URL.Path != "/root/openapi/file/list" {
		t.Errorf("path: %s", req.URL.Path)
	}
	q := req.URL.Query()
	if q.Get("space") != "demo" {
		t.Errorf("space: %q", q.Get("space"))
	}
	if q.Has("page") || q.Has("pageSize") {
		t.Errorf("unexpected paging params: %v", q)
	}

	// space is sent even when empty
	req2, err := NewGetSpaceFileListRequest("https://svc.local", nil)
	if err != nil {
		t.Fatalf("build req2: %v", err)
	}
	if !req2.URL.Query().Has("space") {
		t.Errorf("expected space param, got %q", req2.URL.RawQuery)
	}

	req3, err := NewGetSpaceFileListRequest("https://svc.local", &GetSpaceFileListParams{
		PaginationParams: PaginationParams{Page: intPtr(2), PageSize: intPtr(10)},
		Space:            "demo",
	})
	if err != nil {
		t.Fatalf("build req3: %v", err)
	}
	q3 := req3.URL.Query()
	if q3.Get("page") != "2" || q3.Get("pageSize") != "10" || len(q3["space"]) != 1 {
		t.Errorf("unexpected query: %v", q3)
	}
}

func TestJSONRequestBuilders(t *testing.T) {
	public := true
	tests := []struct {
		name     string
		build    func(server string) (*http.Request, error)
		method   string
		path     string
		wantBody string
	}{
		{
			name: "create space",
			build: func(s string) (*http.Request, error) {
				return NewCreateSpaceRequest(s, CreateSpaceJSONRequestBody{Space: "abcd", Public: &public})
			},
			method:   http.MethodPut,
			path:     "/openapi/space/create",
			wantBody: `{"space":"abcd","public":true}`,
		},
		{
			name: "delete space",
			build: func(s string) (*http.Request, error) {
				return NewDeleteSpaceRequest(s, DeleteSpaceJSONRequestBody{Space: "abcd"})
			},
			method:   http.MethodDelete,
			path:     "/openapi/space/delete",
			wantBody: `{"space":"abcd"}`,
		},
		{
			name: "toggle accessibility",
			build: func(s string) (*http.Request, error) {
				return NewToggleSpaceAccessibilityRequest(s, ToggleSpaceAccessibilityJSONRequestBody{Space: "abcd"})
			},
			method:   http.MethodPost,
			path:     "/openapi/space/accessibility/toggle",
			wantBody: `{"space":"abcd","public":false}`,
		},
		{
			name: "file ticket",
			build: func(s string) (*http.Request, error) {
				return NewFileAccessTicketRequest(s, FileAccessTicketJSONRequestBody{Space: "abcd", Filename: "a.png"})
			},
			method:   http.MethodPost,
			path:     "/openapi/file/ticket",
			wantBody: `{"space":"abcd","filename":"a.png"}`,
		},
		{
			name: "delete file",
			build: func(s string) (*http.Request, error) {
				return NewDeleteFileRequest(s, DeleteFileJSONRequestBody{Space: "abcd", FilenameList: []string{"a.png", "b.png"}})
			},
			method:   http.MethodDelete,
			path:     "/openapi/file/delete",
			wantBody: `{"space":"abcd","filenameList":["a.png","b.png"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.build("https://svc.local")
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if req.Method != tt.method {
				t.Errorf("method: expected %s, got %s", tt.method, req.Method)
			}
			if req.URL.Path != tt.path {
				t.Errorf("path: expected %s, got %s", tt.path, req.URL.Path)
			}
			if ct := req.Header.Get("Content-Type"); ct != JSONContentType {
				t.Errorf("content-type: %s", ct)
			}
			b, _ := io.ReadAll(req.Body)
			if string(b) != tt.wantBody {
				t.Errorf("body: expected %s, got %s", tt.wantBody, b)
			}
		})
	}
}

func TestNewUploadFileRequest(t *testing.T) {
	var file openapiTypes.File
	file.InitFromBytes([]byte("hello"), "hello.txt")

	req, err := NewUploadFileRequest("https://svc.local", UploadFileMultipartRequestBody{File: file, Space: "demo"})
	if err != nil {
		t.Fatalf("build req: %v", err)
	}
	if req.Method != http.MethodPut || req.URL.Path != "/openapi/file/upload" {
		t.Errorf("unexpected request line: %s %s", req.Method, req.URL.Path)
	}

	mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("parse content-type: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("expected multipart/form-data, got %s", mediaType)
	}

	mr := multipart.NewReader(req.Body, params["boundary"])
	var files, spaces int
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("next part: %v", err)
		}
		data, _ := io.ReadAll(part)
		switch part.FormName() {
		case "file":
			files++
			if part.FileName() != "hello.txt" {
				t.Errorf("filename: %q", part.FileName())
			}
			if string(data) != "hello" {
				t.Errorf("file content: %q", data)
			}
		case "space":
			spaces++
			if string(data) != "demo" {
				t.Errorf("space field: %q", data)
			}
		default:
			t.Errorf("unexpected part %q", part.FormName())
		}
	}
	if files != 1 || spaces != 1 {
		t.Errorf("expected one file part and one space field, got %d and %d", files, spaces)
	}
}

func TestClientEditorsAndDoer(t *testing.T) {
	var editorCalled, perCallCalled bool
	ed1 := func(_ context.Context, req *http.Request) error {
		editorCalled = true
		req.Header.Set("X-Test", "client-editor")
		return nil
	}
	ed2 := func(_ context.Context, req *http.Request) error {
		perCallCalled = true
		req.Header.Set("X-Call", "req-editor")
		return nil
	}

	doer := &stubDoer{}
	c, err := NewClient("https://host", WithHTTPClient(doer), WithRequestEditorFn(ed1))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	rsp, err := c.DeleteSpace(context.Background(), DeleteSpaceJSONRequestBody{Space: "abcd"}, ed2)
	if err != nil {
		t.Fatalf("DeleteSpace: %v", err)
	}
	defer func() { _ = rsp.Body.Close() }()

	if !editorCalled || !perCallCalled {
		t.Fatalf("editors not called: client=%v perCall=%v", editorCalled, perCallCalled)
	}
	if doer.lastReq.Header.Get("X-Test") != "client-editor" || doer.lastReq.Header.Get("X-Call") != "req-editor" {
		t.Errorf("headers not propagated: %+v", doer.lastReq.Header)
	}
}

func TestClientEditorError(t *testing.T) {
	doer := &stubDoer{}
	wantErr := errors.New("editor failed")
	c, err := NewClient("https://host", WithHTTPClient(doer), WithRequestEditorFn(func(context.Context, *http.Request) error {
		return wantErr
	}))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.GetSpaceList(context.Background(), nil) //nolint:bodyclose // no response on error
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected editor error, got %v", err)
	}
	if doer.lastReq != nil {
		t.Error("request should not be sent when an editor fails")
	}
}

func TestParseEnvelope(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		body := `{"code":200,"message":"ok","requestId":"r1","success":true,"ts":1700000000,"data":[{"name":"demo","public":true,"createdAt":1,"fileCount":2}]}`
		parsed, err := ParseEnvelope[SpaceListResponse](newResp(200, body, ""))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if parsed.StatusCode() != 200 || parsed.Status() == "" {
			t.Errorf("status helpers incorrect: %d %q", parsed.StatusCode(), parsed.Status())
		}
		if parsed.JSON == nil || !parsed.JSON.Success || parsed.JSON.RequestId != "r1" {
			t.Fatalf("envelope not decoded: %+v", parsed.JSON)
		}
		if len(parsed.JSON.Data) != 1 || parsed.JSON.Data[0].Name != "demo" || parsed.JSON.Data[0].FileCount != 2 {
			t.Errorf("data not decoded: %+v", parsed.JSON.Data)
		}
		if string(parsed.Body) != body {
			t.Errorf("body not buffered")
		}
	})

	t.Run("business failure", func(t *testing.T) {
		parsed, err := ParseEnvelope[CommonResponse](newResp(200, `{"code":40900,"message":"space is not empty","requestId":"r2","success":false,"ts":1}`, ""))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if parsed.JSON == nil || parsed.JSON.Success || parsed.JSON.Code != 40900 {
			t.Errorf("unexpected envelope: %+v", parsed.JSON)
		}
	})

	t.Run("non-json 2xx", func(t *testing.T) {
		_, err := ParseEnvelope[CommonResponse](newResp(200, "<html>", "text/html"))
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("expected *DecodeError, got %v", err)
		}
		if de.StatusCode != 200 || string(de.Body) != "<html>" {
			t.Errorf("unexpected decode error: %+v", de)
		}
		var syntaxErr *json.SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("expected wrapped *json.SyntaxError, got %v", de.Err)
		}
	})

	t.Run("non-json 5xx", func(t *testing.T) {
		parsed, err := ParseEnvelope[CommonResponse](newResp(502, "bad gateway", "text/plain"))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if parsed.JSON != nil {
			t.Errorf("expected nil JSON, got %+v", parsed.JSON)
		}
		if parsed.StatusCode() != 502 {
			t.Errorf("status: %d", parsed.StatusCode())
		}
	})

	t.Run("json error body on 5xx", func(t *testing.T) {
		parsed, err := ParseEnvelope[StatusResponse](newResp(502, `{"error":"upstream down"}`, ""))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if parsed.JSON != nil {
			t.Errorf("expected nil JSON for a non-envelope body, got %+v", parsed.JSON)
		}
		if string(parsed.Body) != `{"error":"upstream down"}` {
			t.Errorf("body not buffered: %s", parsed.Body)
		}
	})

	t.Run("data passed through", func(t *testing.T) {
		parsed, err := ParseEnvelope[StatusResponse](newResp(200, `{"code":200,"message":"ok","requestId":"r4","success":true,"ts":1,"data":{"space":"abcd"}}`, ""))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if parsed.JSON == nil || string(parsed.JSON.Data) != `{"space":"abcd"}` {
			t.Errorf("data not kept: %+v", parsed.JSON)
		}
	})

	t.Run("envelope on 4xx", func(t *testing.T) {
		parsed, err := ParseEnvelope[CommonResponse](newResp(401, `{"code":40100,"message":"signature mismatch","requestId":"r3","success":false,"ts":1}`, ""))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if parsed.JSON == nil || parsed.JSON.Code != 40100 {
			t.Errorf("expected decoded envelope, got %+v", parsed.JSON)
		}
	})
}

func TestWithResponseTransportError(t *testing.T) {
	wantErr := errors.New("connection refused")
	c, err := NewClientWithResponses("https://h", WithHTTPClient(&stubDoer{err: wantErr, resp: newResp(200, "", "")}))
	if err != nil {
		t.Fatalf("NewClientWithResponses: %v", err)
	}
	_, err = c.FileAccessTicketWithResponse(context.Background(), FileAccessTicketJSONRequestBody{Space: "s", Filename: "f"})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestEnvelopeStatusWithoutResponse(t *testing.T) {
	var e Envelope[CommonResponse]
	if e.StatusCode() != 0 {
		t.Errorf("expected 0, got %d", e.StatusCode())
	}
	if e.Status() != "" {
		t.Errorf("expected empty status, got %q", e.Status())
	}
}
