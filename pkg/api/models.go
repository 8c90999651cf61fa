package api

import (
	"encoding/json"

	openapiTypes "github.com/oapi-codegen/runtime/types"
)

// CommonResponse is the envelope shared by every StarDots response.
type CommonResponse struct {
	// Code is the service business code, not the HTTP status.
	Code int `json:"code"`

	// Message describes the operation result.
	Message string `json:"message"`

	// RequestId identifies the request for troubleshooting.
	RequestId string `json:"requestId"` //nolint:revive // matches the wire field

	// Success reports whether the business operation succeeded.
	Success bool `json:"success"`

	// Ts is the server timestamp in milliseconds.
	Ts int64 `json:"ts"`
}

// Header returns the envelope fields. Every response type embeds
// CommonResponse and so has this method.
func (r CommonResponse) Header() CommonResponse {
	return r
}

// StatusResponse is the envelope of operations without a typed payload.
// Data keeps whatever the server sent, JSON null included.
type StatusResponse struct {
	CommonResponse
	Data json.RawMessage `json:"data"`
}

// PaginationParams are the optional paging parameters of list endpoints.
// A nil field is omitted from the query string.
type PaginationParams struct {
	Page     *int `form:"page,omitempty" json:"page,omitempty"`
	PageSize *int `form:"pageSize,omitempty" json:"pageSize,omitempty"`
}

// GetSpaceListParams defines parameters for GetSpaceList.
type GetSpaceListParams struct {
	PaginationParams
}

// SpaceInfo describes one space.
type SpaceInfo struct {
	Name      string `json:"name"`
	Public    bool   `json:"public"`
	CreatedAt int64  `json:"createdAt"`
	FileCount int    `json:"fileCount"`
}

// SpaceListResponse is the envelope returned by GetSpaceList.
type SpaceListResponse struct {
	CommonResponse
	Data []SpaceInfo `json:"data"`
}

// CreateSpaceJSONRequestBody defines body for CreateSpace.
type CreateSpaceJSONRequestBody struct {
	Space  string `json:"space"`
	Public *bool  `json:"public,omitempty"`
}

// DeleteSpaceJSONRequestBody defines body for DeleteSpace.
type DeleteSpaceJSONRequestBody struct {
	Space string `json:"space"`
}

// ToggleSpaceAccessibilityJSONRequestBody defines body for ToggleSpaceAccessibility.
type ToggleSpaceAccessibilityJSONRequestBody struct {
	Space  string `json:"space"`
	Public bool   `json:"public"`
}

// GetSpaceFileListParams defines parameters for GetSpaceFileList.
type GetSpaceFileListParams struct {
	PaginationParams
	Space string `form:"space" json:"space"`
}

// FileInfo describes one stored file.
type FileInfo struct {
	Name       string `json:"name"`
	ByteSize   int64  `json:"byteSize"`
	Size       string `json:"size"`
	UploadedAt int64  `json:"uploadedAt"`
	Url        string `json:"url"` //nolint:revive // matches the wire field
}

// SpaceFileListData is the data payload of GetSpaceFileList.
type SpaceFileListData struct {
	List []FileInfo `json:"list"`
}

// SpaceFileListResponse is the envelope returned by GetSpaceFileList.
type SpaceFileListResponse struct {
	CommonResponse
	Data SpaceFileListData `json:"data"`
}

// FileAccessTicketJSONRequestBody defines body for FileAccessTicket.
type FileAccessTicketJSONRequestBody struct {
	Space    string `json:"space"`
	Filename string `json:"filename"`
}

// FileAccessTicketData is the data payload of FileAccessTicket.
type FileAccessTicketData struct {
	Ticket string `json:"ticket"`
}

// FileAccessTicketResponse is the envelope returned by FileAccessTicket.
type FileAccessTicketResponse struct {
	CommonResponse
	Data FileAccessTicketData `json:"data"`
}

// UploadFileMultipartRequestBody defines body for UploadFile.
type UploadFileMultipartRequestBody struct {
	File  openapiTypes.File `json:"file"`
	Space string            `json:"space"`
}

// UploadFileData is the data payload of UploadFile.
type UploadFileData struct {
	Space    string `json:"space"`
	Filename string `json:"filename"`
	Url      string `json:"url"` //nolint:revive // matches the wire field
}

// UploadFileResponse is the envelope returned by UploadFile.
type UploadFileResponse struct {
	CommonResponse
	Data UploadFileData `json:"data"`
}

// DeleteFileJSONRequestBody defines body for DeleteFile.
type DeleteFileJSONRequestBody struct {
	Space        string   `json:"space"`
	FilenameList []string `json:"filenameList"`
}
