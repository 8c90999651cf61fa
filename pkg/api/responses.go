package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ClientWithResponses builds on Client to offer response payloads
type ClientWithResponses struct {
	ClientInterface
}

// ClientInterface is the raw operation set implemented by Client.
type ClientInterface interface {
	GetSpaceList(ctx context.Context, params *GetSpaceListParams, reqEditors ...RequestEditorFn) (*http.Response, error)
	CreateSpace(ctx context.Context, body CreateSpaceJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error)
	DeleteSpace(ctx context.Context, body DeleteSpaceJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error)
	ToggleSpaceAccessibility(ctx context.Context, body ToggleSpaceAccessibilityJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error)
	GetSpaceFileList(ctx context.Context, params *GetSpaceFileListParams, reqEditors ...RequestEditorFn) (*http.Response, error)
	FileAccessTicket(ctx context.Context, body FileAccessTicketJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error)
	UploadFile(ctx context.Context, body UploadFileMultipartRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error)
	DeleteFile(ctx context.Context, body DeleteFileJSONRequestBody, reqEditors ...RequestEditorFn) (*http.Response, error)
}

// NewClientWithResponses creates a new ClientWithResponses, which wraps
// Client with return type handling
func NewClientWithResponses(server string, opts ...ClientOption) (*ClientWithResponses, error) {
	client, err := NewClient(server, opts...)
	if err != nil {
		return nil, err
	}
	return &ClientWithResponses{client}, nil
}

// DecodeError reports a response body that is not the expected JSON document.
type DecodeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response (status %d): %v", e.StatusCode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Envelope is the buffered result of one exchange.
type Envelope[T any] struct {
	Body         []byte
	HTTPResponse *http.Response

	// JSON holds the decoded envelope. It is nil when a non-2xx response
	// carried a body that is not an envelope.
	JSON *T
}

// Status returns HTTPResponse.Status
func (r Envelope[T]) Status() string {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.Status
	}
	return http.StatusText(0)
}

// StatusCode returns HTTPResponse.StatusCode
func (r Envelope[T]) StatusCode() int {
	if r.HTTPResponse != nil {
		return r.HTTPResponse.StatusCode
	}
	return 0
}

type (
	GetSpaceListResponse             = Envelope[SpaceListResponse]
	CreateSpaceResponse              = Envelope[StatusResponse]
	DeleteSpaceResponse              = Envelope[StatusResponse]
	ToggleSpaceAccessibilityResponse = Envelope[StatusResponse]
	GetSpaceFileListResponse         = Envelope[SpaceFileListResponse]
	FileAccessTicketAPIResponse      = Envelope[FileAccessTicketResponse]
	UploadFileAPIResponse            = Envelope[UploadFileResponse]
	DeleteFileResponse               = Envelope[StatusResponse]
)

// GetSpaceListWithResponse request returning *GetSpaceListResponse
func (c *ClientWithResponses) GetSpaceListWithResponse(ctx context.Context, params *GetSpaceListParams, reqEditors ...RequestEditorFn) (*GetSpaceListResponse, error) {
	rsp, err := c.GetSpaceList(ctx, params, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseEnvelope[SpaceListResponse](rsp)
}

// CreateSpaceWithResponse request returning *CreateSpaceResponse
func (c *ClientWithResponses) CreateSpaceWithResponse(ctx context.Context, body CreateSpaceJSONRequestBody, reqEditors ...RequestEditorFn) (*CreateSpaceResponse, error) {
	rsp, err := c.CreateSpace(ctx, body, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseEnvelope[StatusResponse](rsp)
}

// DeleteSpaceWithResponse request returning *DeleteSpaceResponse
func (c *ClientWithResponses) DeleteSpaceWithResponse(ctx context.Context, body DeleteSpaceJSONRequestBody, reqEditors ...RequestEditorFn) (*DeleteSpaceResponse, error) {
	rsp, err := c.DeleteSpace(ctx, body, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseEnvelope[StatusResponse](rsp)
}

// ToggleSpaceAccessibilityWithResponse request returning *ToggleSpaceAccessibilityResponse
func (c *ClientWithResponses) ToggleSpaceAccessibilityWithResponse(ctx context.Context, body ToggleSpaceAccessibilityJSONRequestBody, reqEditors ...RequestEditorFn) (*ToggleSpaceAccessibilityResponse, error) {
	rsp, err := c.ToggleSpaceAccessibility(ctx, body, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseEnvelope[StatusResponse](rsp)
}

// GetSpaceFileListWithResponse request returning *GetSpaceFileListResponse
func (c *ClientWithResponses) GetSpaceFileListWithResponse(ctx context.Context, params *GetSpaceFileListParams, reqEditors ...RequestEditorFn) (*GetSpaceFileListResponse, error) {
	rsp, err := c.GetSpaceFileList(ctx, params, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseEnvelope[SpaceFileListResponse](rsp)
}

// FileAccessTicketWithResponse request returning *FileAccessTicketAPIResponse
func (c *ClientWithResponses) FileAccessTicketWithResponse(ctx context.Context, body FileAccessTicketJSONRequestBody, reqEditors ...RequestEditorFn) (*FileAccessTicketAPIResponse, error) {
	rsp, err := c.FileAccessTicket(ctx, body, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseEnvelope[FileAccessTicketResponse](rsp)
}

// UploadFileWithResponse request returning *UploadFileAPIResponse
func (c *ClientWithResponses) UploadFileWithResponse(ctx context.Context, body UploadFileMultipartRequestBody, reqEditors ...RequestEditorFn) (*UploadFileAPIResponse, error) {
	rsp, err := c.UploadFile(ctx, body, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseEnvelope[UploadFileResponse](rsp)
}

// DeleteFileWithResponse request returning *DeleteFileResponse
func (c *ClientWithResponses) DeleteFileWithResponse(ctx context.Context, body DeleteFileJSONRequestBody, reqEditors ...RequestEditorFn) (*DeleteFileResponse, error) {
	rsp, err := c.DeleteFile(ctx, body, reqEditors...)
	if err != nil {
		return nil, err
	}
	return ParseEnvelope[StatusResponse](rsp)
}

// ParseEnvelope buffers rsp.Body, closes it and decodes the envelope.
//
// A 2xx response whose body is not valid JSON yields a *DecodeError. For
// other statuses the decode is best effort and JSON stays nil unless the body
// is an envelope.
func ParseEnvelope[T any](rsp *http.Response) (*Envelope[T], error) {
	bodyBytes, err := io.ReadAll(rsp.Body)
	defer func() { _ = rsp.Body.Close() }()
	if err != nil {
		return nil, err
	}

	response := &Envelope[T]{
		Body:         bodyBytes,
		HTTPResponse: rsp,
	}

	var dest T
	if err := json.Unmarshal(bodyBytes, &dest); err != nil {
		if rsp.StatusCode >= 200 && rsp.StatusCode < 300 {
			return nil, &DecodeError{StatusCode: rsp.StatusCode, Body: bodyBytes, Err: err}
		}
		return response, nil
	}
	if (rsp.StatusCode < 200 || rsp.StatusCode > 299) && !isEnvelope(bodyBytes) {
		return response, nil
	}
	response.JSON = &dest

	return response, nil
}

// isEnvelope reports whether body carries the envelope's code and success
// fields. Error pages from proxies are often JSON without them.
func isEnvelope(body []byte) bool {
	var fields struct {
		Code    *int  `json:"code"`
		Success *bool `json:"success"`
	}
	return json.Unmarshal(body, &fields) == nil && fields.Code != nil && fields.Success != nil
}
