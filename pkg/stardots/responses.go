package stardots

import (
	"encoding/json"

	"github.com/stardots-io/stardots-sdk-go/pkg/api"
)

// CommonResponse is the envelope every operation returns. Success false is a
// business failure: inspect Code and Message.
type CommonResponse = api.CommonResponse

// SpaceInfo describes one space.
type SpaceInfo = api.SpaceInfo

// FileInfo describes one file. For private spaces Url carries an access
// ticket valid for about 20 seconds.
type FileInfo = api.FileInfo

// SpaceListRequest pages through spaces. Zero values are omitted.
type SpaceListRequest struct {
	Page     int
	PageSize int // 1-100
}

// SpaceListResponse carries the spaces of one page.
type SpaceListResponse = api.SpaceListResponse

// CreateSpaceRequest creates a space. Space names are 4-15 letters or digits.
// A nil Public is left out of the request and the server default applies.
type CreateSpaceRequest struct {
	Space  string
	Public *bool
}

// CreateSpaceResponse has no typed payload. Data is passed through as sent.
type CreateSpaceResponse struct {
	CommonResponse
	Data json.RawMessage `json:"data"`
}

// DeleteSpaceRequest deletes a space. The server rejects non-empty spaces.
type DeleteSpaceRequest struct {
	Space string
}

// DeleteSpaceResponse has no typed payload. Data is passed through as sent.
type DeleteSpaceResponse struct {
	CommonResponse
	Data json.RawMessage `json:"data"`
}

// ToggleSpaceAccessibilityRequest sets the visibility of a space.
type ToggleSpaceAccessibilityRequest struct {
	Space  string
	Public bool
}

// ToggleSpaceAccessibilityResponse has no typed payload. Data is passed through as sent.
type ToggleSpaceAccessibilityResponse struct {
	CommonResponse
	Data json.RawMessage `json:"data"`
}

// SpaceFileListRequest pages through the files of a space, newest first.
type SpaceFileListRequest struct {
	Space    string
	Page     int
	PageSize int // 1-100
}

// SpaceFileListResponse carries the files of one page in Data.List.
type SpaceFileListResponse = api.SpaceFileListResponse

// FileAccessTicketRequest asks for a ticket to read a file in a private space.
type FileAccessTicketRequest struct {
	Space    string
	Filename string
}

// FileAccessTicketResponse carries the ticket in Data.Ticket.
type FileAccessTicketResponse = api.FileAccessTicketResponse

// UploadFileRequest uploads FileContent as Filename into Space.
type UploadFileRequest struct {
	Space       string
	Filename    string
	FileContent []byte
}

// UploadFileResponse carries the stored file's space, name and URL.
type UploadFileResponse = api.UploadFileResponse

// DeleteFileRequest deletes files from a space in one batch.
type DeleteFileRequest struct {
	Space        string
	FilenameList []string
}

// DeleteFileResponse has no typed payload. Data is passed through as sent.
type DeleteFileResponse struct {
	CommonResponse
	Data json.RawMessage `json:"data"`
}
