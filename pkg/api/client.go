// Package api is the low-level StarDots OpenAPI client.
//
// It builds one *http.Request per operation, runs the configured request
// editors over it and hands it to an HttpRequestDoer. Higher level concerns
// (signing, timeouts, typed errors) live in package stardots.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// JSONContentType is sent with every JSON request body.
const JSONContentType = "application/json; charset=utf-8"

// RequestEditorFn is the function signature for the RequestEditor callback function
type RequestEditorFn func(ctx context.Context, req *http.Request) error

// HttpRequestDoer performs HTTP requests.
//
// The standard http.Client implements this interface.
type HttpRequestDoer interface { //nolint:revive // generated-client naming
	Do(req *http.Request) (*http.Response, error)
}

// Client which conforms to the OpenAPI3 specification for this service.
type Client struct {
	// The endpoint of the server conforming to this interface, with scheme,
	// https://api.stardots.io for example. This can contain a path relative
	// to the server, such as https://api.stardots.io/v1, and all the
	// paths in the swagger spec will be appended to the server.
	Server string

	// Doer for performing requests, typically a *http.Client with any
	// customized settings, such as certificate chains.
	Client HttpRequestDoer

	// A list of callbacks for modifying requests which are generated before sending over
	// the network.
	RequestEditors []RequestEditorFn
}

// ClientOption allows setting custom parameters during construction
type ClientOption func(*Client) error

// NewClient creates a new Client, with reasonable defaults
func NewClient(server string, opts ...ClientOption) (*Client, error) {
	client := Client{
		Server: server,
	}
	for _, o := range opts {
		if err := o(&client); err != nil {
			return nil, err
		}
	}
	// ensure the server URL always has a trailing slash
	if !strings.HasSuffix(client.Server, "/") {
		client.Server += "/"
	}
	if client.Client == nil {
		client.Client = &http.Client{}
	}
	return &client, nil
}

// WithHTTPClient allows overriding the default Doer, which is
// automatically created using http.Client. This is useful for tests.
func WithHTTPClient(doer HttpRequestDoer) ClientOption {
	return func(c *Client) error {
		c.Client = doer
		return nil
	}
}

// WithRequestEditorFn allows setting up a callback function, which will be
// called right before sending the request. This can be used to mutate the request.
func WithRequestEditorFn(fn RequestEditorFn) ClientOption {
	return func(c *Client) error {
		c.RequestEditors = append(c.RequestEditors, fn)
		return nil
	}
}

// WithBaseURL overrides the baseURL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) error {
		newBaseURL, err := url.Parse(baseURL)
		if err != nil {
			return err
		}
		c.Server = newBaseURL.String()
		return nil
	}
}

func (c *Client) GetSpaceList(ctx context.Context, params *GetSpaceListParams, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewGetSpaceListRequest(c.Server, params)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *Client) CreateSpace(ctx context.Context, body CreateSpaceJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewCreateSpaceRequest(c.Server, body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *Client) DeleteSpace(ctx context.Context, body DeleteSpaceJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewDeleteSpaceRequest(c.Server, body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *Client) ToggleSpaceAccessibility(ctx context.Context, body ToggleSpaceAccessibilityJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewToggleSpaceAccessibilityRequest(c.Server, body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *Client) GetSpaceFileList(ctx context.Context, params *GetSpaceFileListParams, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewGetSpaceFileListRequest(c.Server, params)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *Client) FileAccessTicket(ctx context.Context, body FileAccessTicketJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewFileAccessTicketRequest(c.Server, body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *Client) UploadFile(ctx context.Context, body UploadFileMultipartRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewUploadFileRequest(c.Server, body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *Client) DeleteFile(ctx context.Context, body DeleteFileJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error) {
	req, err := NewDeleteFileRequest(c.Server, body)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req, reqEditors)
}

func (c *Client) do(ctx context.Context, req *http.Request, reqEditors []RequestEditorFn) (*http.Response, error) {
	req = req.WithContext(ctx)
	if err := c.applyEditors(ctx, req, reqEditors); err != nil {
		return nil, err
	}
	return c.Client.Do(req)
}

func (c *Client) applyEditors(ctx context.Context, req *http.Request, additionalEditors []RequestEditorFn) error {
	for _, r := range c.RequestEditors {
		if err := r(ctx, req); err != nil {
			return err
		}
	}
	for _, r := range additionalEditors {
		if err := r(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// NewGetSpaceListRequest generates requests for GetSpaceList
func NewGetSpaceListRequest(server string, params *GetSpaceListParams) (*http.Request, error) {
	queryURL, err := operationURL(server, "/openapi/space/list")
	if err != nil {
		return nil, err
	}

	if params != nil {
		queryValues := queryURL.Query()
		if err := addPagination(queryValues, params.PaginationParams); err != nil {
			return nil, err
		}
		queryURL.RawQuery = queryValues.Encode()
	}

	return http.NewRequest(http.MethodGet, queryURL.String(), nil)
}

// NewCreateSpaceRequest calls the generic CreateSpace builder with application/json body
func NewCreateSpaceRequest(server string, body CreateSpaceJSONRequestBody) (*http.Request, error) {
	return newJSONRequest(server, http.MethodPut, "/openapi/space/create", body)
}

// NewDeleteSpaceRequest calls the generic DeleteSpace builder with application/json body
func NewDeleteSpaceRequest(server string, body DeleteSpaceJSONRequestBody) (*http.Request, error) {
	return newJSONRequest(server, http.MethodDelete, "/openapi/space/delete", body)
}

// NewToggleSpaceAccessibilityRequest calls the generic ToggleSpaceAccessibility builder with application/json body
func NewToggleSpaceAccessibilityRequest(server string, body ToggleSpaceAccessibilityJSONRequestBody) (*http.Request, error) {
	return newJSONRequest(server, http.MethodPost, "/openapi/space/accessibility/toggle", body)
}

// NewGetSpaceFileListRequest generates requests for GetSpaceFileList.
// The space parameter is always sent, even when empty.
func NewGetSpaceFileListRequest(server string, params *GetSpaceFileListParams) (*http.Request, error) {
	queryURL, err := operationURL(server, "/openapi/file/list")
	if err != nil {
		return nil, err
	}

	if params == nil {
		params = &GetSpaceFileListParams{}
	}
	queryValues := queryURL.Query()
	if err := addPagination(queryValues, params.PaginationParams); err != nil {
		return nil, err
	}
	queryValues.Set("space", params.Space)
	queryURL.RawQuery = queryValues.Encode()

	return http.NewRequest(http.MethodGet, queryURL.String(), nil)
}

// NewFileAccessTicketRequest calls the generic FileAccessTicket builder with application/json body
func NewFileAccessTicketRequest(server string, body FileAccessTicketJSONRequestBody) (*http.Request, error) {
	return newJSONRequest(server, http.MethodPost, "/openapi/file/ticket", body)
}

// NewUploadFileRequest generates a multipart/form-data request for UploadFile.
// The Content-Type header carries the boundary chosen by the multipart writer;
// it is never the JSON content type.
func NewUploadFileRequest(server string, body UploadFileMultipartRequestBody) (*http.Request, error) {
	queryURL, err := operationURL(server, "/openapi/file/upload")
	if err != nil {
		return nil, err
	}

	data, err := body.File.Bytes()
	if err != nil {
		return nil, fmt.Errorf("read upload file: %w", err)
	}

	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("file", body.File.Filename())
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.WriteField("space", body.Space); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPut, queryURL.String(), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}

// NewDeleteFileRequest calls the generic DeleteFile builder with application/json body
func NewDeleteFileRequest(server string, body DeleteFileJSONRequestBody) (*http.Request, error) {
	return newJSONRequest(server, http.MethodDelete, "/openapi/file/delete", body)
}

func newJSONRequest(server, method, path string, body any) (*http.Request, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	queryURL, err := operationURL(server, path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(method, queryURL.String(), bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", JSONContentType)
	return req, nil
}

func operationURL(server, path string) (*url.URL, error) {
	if !strings.HasSuffix(server, "/") {
		server += "/"
	}
	serverURL, err := url.Parse(server)
	if err != nil {
		return nil, err
	}

	operationPath := path
	if operationPath[0] == '/' {
		operationPath = "." + operationPath
	}

	return serverURL.Parse(operationPath)
}

func addPagination(queryValues url.Values, p PaginationParams) error {
	if p.Page != nil {
		if err := addQueryParam(queryValues, "page", *p.Page); err != nil {
			return err
		}
	}
	if p.PageSize != nil {
		if err := addQueryParam(queryValues, "pageSize", *p.PageSize); err != nil {
			return err
		}
	}
	return nil
}

func addQueryParam(queryValues url.Values, name string, value any) error {
	queryFrag, err := runtime.StyleParamWithLocation("form", true, name, runtime.ParamLocationQuery, value)
	if err != nil {
		return err
	}
	parsed, err := url.ParseQuery(queryFrag)
	if err != nil {
		return err
	}
	for k, v := range parsed {
		for _, v2 := range v {
			queryValues.Add(k, v2)
		}
	}
	return nil
}
