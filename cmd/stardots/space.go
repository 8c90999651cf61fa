package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stardots-io/stardots-sdk-go/pkg/stardots"
)

// Space command group
func newSpaceCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "space",
		Short: "Manage spaces",
		Long:  "Spaces are named buckets of files. Names are 4 to 15 letters or digits.",
	}
	cmd.AddCommand(newSpaceListCmd(v))
	cmd.AddCommand(newSpaceCreateCmd(v))
	cmd.AddCommand(newSpaceDeleteCmd(v))
	cmd.AddCommand(newSpaceToggleCmd(v))
	return cmd
}

func newSpaceListCmd(v *viper.Viper) *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List spaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req := stardots.SpaceListRequest{Page: page, PageSize: pageSize}
			return execute(cmd, v,
				func(ctx context.Context, c *stardots.Client) (*stardots.SpaceListResponse, error) {
					return c.SpaceList(ctx, req)
				},
				func(w io.Writer, resp *stardots.SpaceListResponse) {
					renderSpaces(w, resp.Data)
				})
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number, starting at 1 (server default if unset)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "spaces per page, 1-100 (server default if unset)")
	return cmd
}

func newSpaceCreateCmd(v *viper.Viper) *cobra.Command {
	var public bool
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !stardots.ValidSpaceName(args[0]) {
				return describe(&stardots.ValidationError{
					Code:    stardots.ErrCodeInvalidRequest,
					Message: fmt.Sprintf("space name %q must be 4 to 15 letters or digits", args[0]),
				})
			}
			req := stardots.CreateSpaceRequest{Space: args[0]}
			if cmd.Flags().Changed("public") {
				req.Public = &public
			}
			return execute(cmd, v,
				func(ctx context.Context, c *stardots.Client) (*stardots.CreateSpaceResponse, error) {
					return c.CreateSpace(ctx, req)
				},
				func(w io.Writer, _ *stardots.CreateSpaceResponse) {
					printSuccess(w, fmt.Sprintf("Space %q created", req.Space))
					printDetail(w, "Access", visibility(req.Public != nil && *req.Public))
				})
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "make files readable without a ticket")
	return cmd
}

func newSpaceDeleteCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an empty space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := stardots.DeleteSpaceRequest{Space: args[0]}
			return execute(cmd, v,
				func(ctx context.Context, c *stardots.Client) (*stardots.DeleteSpaceResponse, error) {
					return c.DeleteSpace(ctx, req)
				},
				func(w io.Writer, _ *stardots.DeleteSpaceResponse) {
					printSuccess(w, fmt.Sprintf("Space %q deleted", req.Space))
				})
		},
	}
}

func newSpaceToggleCmd(v *viper.Viper) *cobra.Command {
	var public bool
	cmd := &cobra.Command{
		Use:   "toggle NAME --public=true|false",
		Short: "Make a space public or private",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := stardots.ToggleSpaceAccessibilityRequest{Space: args[0], Public: public}
			return execute(cmd, v,
				func(ctx context.Context, c *stardots.Client) (*stardots.ToggleSpaceAccessibilityResponse, error) {
					return c.ToggleSpaceAccessibility(ctx, req)
				},
				func(w io.Writer, _ *stardots.ToggleSpaceAccessibilityResponse) {
					printSuccess(w, fmt.Sprintf("Space %q is now %s", req.Space, visibility(req.Public)))
				})
		},
	}
	cmd.Flags().BoolVar(&public, "public", false, "target accessibility (required)")
	cobra.CheckErr(cmd.MarkFlagRequired("public"))
	return cmd
}
