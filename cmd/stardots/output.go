package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/stardots-io/stardots-sdk-go/pkg/stardots"
)

var (
	colorText  = lipgloss.Color("#EDEDED")
	colorMuted = lipgloss.Color("#737373")
	colorGood  = lipgloss.Color("#22C55E")
	colorWarn  = lipgloss.Color("#F59E0B")

	baseStyle   = lipgloss.NewStyle().Foreground(colorText)
	dimStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle = lipgloss.NewStyle().Bold(true)

	successPrefix = lipgloss.NewStyle().Foreground(colorGood).SetString("✔ ")
)

// outputJSON prints the value as JSON
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, successPrefix.Render()+baseStyle.Render(msg))
}

func printDetail(w io.Writer, label, value string) {
	_, _ = fmt.Fprintln(w, "  "+dimStyle.Render(label+":")+" "+baseStyle.Render(value))
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return baseStyle.Padding(0, 1)
		})
}

func renderSpaces(w io.Writer, spaces []stardots.SpaceInfo) {
	if len(spaces) == 0 {
		_, _ = fmt.Fprintln(w, dimStyle.Render("No spaces found"))
		return
	}

	t := newTable("SPACE", "ACCESS", "FILES", "CREATED")
	for _, s := range spaces {
		t.Row(s.Name, visibility(s.Public), strconv.Itoa(s.FileCount), relativeTime(s.CreatedAt))
	}
	_, _ = fmt.Fprintln(w, t.Render())
}

func renderFiles(w io.Writer, files []stardots.FileInfo) {
	if len(files) == 0 {
		_, _ = fmt.Fprintln(w, dimStyle.Render("No files found"))
		return
	}

	t := newTable("NAME", "SIZE", "UPLOADED", "URL")
	for _, f := range files {
		size := f.Size
		if f.ByteSize > 0 {
			size = humanize.Bytes(uint64(f.ByteSize))
		}
		t.Row(f.Name, size, relativeTime(f.UploadedAt), f.Url)
	}
	_, _ = fmt.Fprintln(w, t.Render())
}

func visibility(public bool) string {
	if public {
		return lipgloss.NewStyle().Foreground(colorGood).Render("public")
	}
	return lipgloss.NewStyle().Foreground(colorWarn).Render("private")
}

// relativeTime accepts Unix seconds or milliseconds.
func relativeTime(ts int64) string {
	if ts <= 0 {
		return "-"
	}
	if ts > 1e12 {
		return humanize.Time(time.UnixMilli(ts))
	}
	return humanize.Time(time.Unix(ts, 0))
}
