package stardots

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	openapiTypes "github.com/oapi-codegen/runtime/types"

	"github.com/stardots-io/stardots-sdk-go/pkg/api"
)

// Client is a StarDots API client.
//
// A Client is safe for concurrent use by multiple goroutines. It holds only
// immutable configuration; every call signs its own request and owns its
// own timeout.
type Client struct {
	raw    *api.ClientWithResponses
	opts   *Options
	signer *Signer
}

// New creates a client for the key/secret pair.
func New(key, secret string, opts ...Option) (*Client, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}
	if secret == "" {
		return nil, errors.New("secret cannot be empty")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}
	endpoint, err := url.Parse(options.endpoint)
	if err != nil || endpoint.Scheme == "" || endpoint.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q", options.endpoint)
	}
	if options.httpClient == nil {
		options.httpClient = &http.Client{}
	}

	tr := &transport{
		next:   options.httpClient,
		logger: options.logger,
	}
	if options.validateRequests {
		tr.validator, err = api.NewValidator(context.Background(), options.endpoint)
		if err != nil {
			return nil, fmt.Errorf("create request validator: %w", err)
		}
	}

	signer := NewSigner(key, secret, options.clock, options.rand)

	rawClient, err := api.NewClientWithResponses(options.endpoint,
		api.WithHTTPClient(tr),
		api.WithRequestEditorFn(signer.EditRequest),
	)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &Client{
		raw:    rawClient,
		opts:   options,
		signer: signer,
	}, nil
}

// SpaceList returns one page of spaces.
func (c *Client) SpaceList(ctx context.Context, req SpaceListRequest) (*SpaceListResponse, error) {
	params := &api.GetSpaceListParams{PaginationParams: pagination(req.Page, req.PageSize)}

	return exchange(ctx, c, "space list", func(ctx context.Context) (*api.GetSpaceListResponse, error) {
		return c.raw.GetSpaceListWithResponse(ctx, params)
	})
}

// CreateSpace creates a new space.
func (c *Client) CreateSpace(ctx context.Context, req CreateSpaceRequest) (*CreateSpaceResponse, error) {
	if err := validateSpace(req.Space); err != nil {
		return nil, err
	}
	body := api.CreateSpaceJSONRequestBody{Space: req.Space, Public: req.Public}

	resp, err := exchange(ctx, c, "create space", func(ctx context.Context) (*api.CreateSpaceResponse, error) {
		return c.raw.CreateSpaceWithResponse(ctx, body)
	})
	if resp == nil {
		return nil, err
	}
	return &CreateSpaceResponse{CommonResponse: resp.CommonResponse, Data: resp.Data}, err
}

// DeleteSpace deletes an existing space. The space must hold no files,
// otherwise the server reports a business failure.
func (c *Client) DeleteSpace(ctx context.Context, req DeleteSpaceRequest) (*DeleteSpaceResponse, error) {
	if err := validateSpace(req.Space); err != nil {
		return nil, err
	}
	body := api.DeleteSpaceJSONRequestBody{Space: req.Space}

	resp, err := exchange(ctx, c, "delete space", func(ctx context.Context) (*api.DeleteSpaceResponse, error) {
		return c.raw.DeleteSpaceWithResponse(ctx, body)
	})
	if resp == nil {
		return nil, err
	}
	return &DeleteSpaceResponse{CommonResponse: resp.CommonResponse, Data: resp.Data}, err
}

// ToggleSpaceAccessibility makes a space public or private.
func (c *Client) ToggleSpaceAccessibility(ctx context.Context, req ToggleSpaceAccessibilityRequest) (*ToggleSpaceAccessibilityResponse, error) {
	if err := validateSpace(req.Space); err != nil {
		return nil, err
	}
	body := api.ToggleSpaceAccessibilityJSONRequestBody{Space: req.Space, Public: req.Public}

	resp, err := exchange(ctx, c, "toggle space accessibility", func(ctx context.Context) (*api.ToggleSpaceAccessibilityResponse, error) {
		return c.raw.ToggleSpaceAccessibilityWithResponse(ctx, body)
	})
	if resp == nil {
		return nil, err
	}
	return &ToggleSpaceAccessibilityResponse{CommonResponse: resp.CommonResponse, Data: resp.Data}, err
}

// SpaceFileList returns one page of files in a space, newest upload first.
func (c *Client) SpaceFileList(ctx context.Context, req SpaceFileListRequest) (*SpaceFileListResponse, error) {
	if err := validateSpace(req.Space); err != nil {
		return nil, err
	}
	params := &api.GetSpaceFileListParams{
		PaginationParams: pagination(req.Page, req.PageSize),
		Space:            req.Space,
	}

	return exchange(ctx, c, "space file list", func(ctx context.Context) (*api.GetSpaceFileListResponse, error) {
		return c.raw.GetSpaceFileListWithResponse(ctx, params)
	})
}

// FileAccessTicket returns a short-lived ticket for reading a file in a
// private space.
func (c *Client) FileAccessTicket(ctx context.Context, req FileAccessTicketRequest) (*FileAccessTicketResponse, error) {
	if err := validateSpace(req.Space); err != nil {
		return nil, err
	}
	if err := validateFilename(req.Filename); err != nil {
		return nil, err
	}
	body := api.FileAccessTicketJSONRequestBody{Space: req.Space, Filename: req.Filename}

	return exchange(ctx, c, "file access ticket", func(ctx context.Context) (*api.FileAccessTicketAPIResponse, error) {
		return c.raw.FileAccessTicketWithResponse(ctx, body)
	})
}

// UploadFile uploads a file as multipart form data.
func (c *Client) UploadFile(ctx context.Context, req UploadFileRequest) (*UploadFileResponse, error) {
	if err := validateSpace(req.Space); err != nil {
		return nil, err
	}
	if err := validateFilename(req.Filename); err != nil {
		return nil, err
	}
	var file openapiTypes.File
	file.InitFromBytes(req.FileContent, req.Filename)
	body := api.UploadFileMultipartRequestBody{File: file, Space: req.Space}

	return exchange(ctx, c, "upload file", func(ctx context.Context) (*api.UploadFileAPIResponse, error) {
		return c.raw.UploadFileWithResponse(ctx, body)
	})
}

// DeleteFile deletes files from a space in one batch.
func (c *Client) DeleteFile(ctx context.Context, req DeleteFileRequest) (*DeleteFileResponse, error) {
	if err := validateSpace(req.Space); err != nil {
		return nil, err
	}
	if len(req.FilenameList) == 0 {
		return nil, &ValidationError{
			Code:    ErrCodeInvalidRequest,
			Message: "filenameList cannot be empty",
		}
	}
	for _, name := range req.FilenameList {
		if err := validateFilename(name); err != nil {
			return nil, err
		}
	}
	body := api.DeleteFileJSONRequestBody{Space: req.Space, FilenameList: req.FilenameList}

	resp, err := exchange(ctx, c, "delete file", func(ctx context.Context) (*api.DeleteFileResponse, error) {
		return c.raw.DeleteFileWithResponse(ctx, body)
	})
	if resp == nil {
		return nil, err
	}
	return &DeleteFileResponse{CommonResponse: resp.CommonResponse, Data: resp.Data}, err
}

func pagination(page, pageSize int) api.PaginationParams {
	var p api.PaginationParams
	if page > 0 {
		p.Page = &page
	}
	if pageSize > 0 {
		p.PageSize = &pageSize
	}
	return p
}

var spaceNamePattern = regexp.MustCompile(`^[A-Za-z0-9]{4,15}$`)

// ValidSpaceName reports whether name satisfies the service's naming rule:
// 4 to 15 letters or digits. The client does not enforce it; the server does.
func ValidSpaceName(name string) bool {
	return spaceNamePattern.MatchString(name)
}

func validateSpace(space string) error {
	if strings.TrimSpace(space) != "" {
		return nil
	}
	return &ValidationError{
		Code:    ErrCodeInvalidRequest,
		Message: "space cannot be empty",
	}
}

func validateFilename(name string) error {
	if strings.TrimSpace(name) != "" {
		return nil
	}
	return &ValidationError{
		Code:    ErrCodeInvalidRequest,
		Message: "filename cannot be empty",
	}
}
