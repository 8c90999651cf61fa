package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stardots-io/stardots-sdk-go/pkg/stardots"
)

// File command group
func newFileCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file",
		Short: "Manage files in a space",
	}
	cmd.AddCommand(newFileListCmd(v))
	cmd.AddCommand(newFileUploadCmd(v))
	cmd.AddCommand(newFileDeleteCmd(v))
	cmd.AddCommand(newFileTicketCmd(v))
	return cmd
}

func newFileListCmd(v *viper.Viper) *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list SPACE",
		Short: "List files in a space, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := stardots.SpaceFileListRequest{Space: args[0], Page: page, PageSize: pageSize}
			return execute(cmd, v,
				func(ctx context.Context, c *stardots.Client) (*stardots.SpaceFileListResponse, error) {
					return c.SpaceFileList(ctx, req)
				},
				func(w io.Writer, resp *stardots.SpaceFileListResponse) {
					renderFiles(w, resp.Data.List)
				})
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number, starting at 1 (server default if unset)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "files per page, 1-100 (server default if unset)")
	return cmd
}

func newFileUploadCmd(v *viper.Viper) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "upload SPACE PATH",
		Short: "Upload a local file",
		Long: `Uploads a local file into a space.

Example:
  stardots file upload assets ./logo.png
  stardots file upload assets ./build/out.png --name logo-v2.png`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			filename := name
			if filename == "" {
				filename = filepath.Base(args[1])
			}

			req := stardots.UploadFileRequest{Space: args[0], Filename: filename, FileContent: content}
			return execute(cmd, v,
				func(ctx context.Context, c *stardots.Client) (*stardots.UploadFileResponse, error) {
					return c.UploadFile(ctx, req)
				},
				func(w io.Writer, resp *stardots.UploadFileResponse) {
					printSuccess(w, fmt.Sprintf("Uploaded %s (%s)", resp.Data.Filename, humanize.Bytes(uint64(len(content)))))
					printDetail(w, "Space", resp.Data.Space)
					printDetail(w, "URL", resp.Data.Url)
				})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "stored file name (default is the base name of PATH)")
	return cmd
}

func newFileDeleteCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "delete SPACE NAME...",
		Short: "Delete files from a space",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := stardots.DeleteFileRequest{Space: args[0], FilenameList: args[1:]}
			return execute(cmd, v,
				func(ctx context.Context, c *stardots.Client) (*stardots.DeleteFileResponse, error) {
					return c.DeleteFile(ctx, req)
				},
				func(w io.Writer, _ *stardots.DeleteFileResponse) {
					printSuccess(w, fmt.Sprintf("Deleted %s from %q", strings.Join(req.FilenameList, ", "), req.Space))
				})
		},
	}
}

func newFileTicketCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "ticket SPACE NAME",
		Short: "Issue an access ticket for a file in a private space",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := stardots.FileAccessTicketRequest{Space: args[0], Filename: args[1]}
			return execute(cmd, v,
				func(ctx context.Context, c *stardots.Client) (*stardots.FileAccessTicketResponse, error) {
					return c.FileAccessTicket(ctx, req)
				},
				func(w io.Writer, resp *stardots.FileAccessTicketResponse) {
					_, _ = fmt.Fprintln(w, resp.Data.Ticket)
				})
		},
	}
}
