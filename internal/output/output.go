// Package output provides formatted output rendering for extracted employee
// records and generated songs. It supports text, JSON, and YAML formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/bimmerbailey/dumpsong/internal/employee"
)

// Format represents an output format type.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "yaml", "yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Song is a generated song together with the record it was written for.
type Song struct {
	Employee employee.Info `json:"employee" yaml:"employee"`
	Lyrics   string        `json:"lyrics" yaml:"lyrics"`
	VideoURL string        `json:"videoUrl,omitempty" yaml:"video_url,omitempty"`
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
}

// New creates a new output Writer.
func New(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// WriteInfo outputs an extracted employee record in the configured format.
func (wr *Writer) WriteInfo(info employee.Info, mode ColorMode) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(info)
	case FormatYAML:
		return wr.WriteYAML(info)
	default:
		return wr.writeInfoText(info, shouldColorize(mode, wr.w))
	}
}

// WriteSong outputs a generated song in the configured format.
func (wr *Writer) WriteSong(song Song, mode ColorMode) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(song)
	case FormatYAML:
		return wr.WriteYAML(song)
	default:
		colorize := shouldColorize(mode, wr.w)
		if err := wr.writeInfoText(song.Employee, colorize); err != nil {
			return err
		}
		fmt.Fprintln(wr.w)
		if colorize {
			fmt.Fprintln(wr.w, ColorizeLyrics(song.Lyrics))
		} else {
			fmt.Fprintln(wr.w, song.Lyrics)
		}
		if song.VideoURL != "" {
			fmt.Fprintf(wr.w, "\nvideo: %s\n", song.VideoURL)
		}
		return nil
	}
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML outputs any value as YAML.
func (wr *Writer) WriteYAML(v interface{}) error {
	enc := yaml.NewEncoder(wr.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (wr *Writer) writeInfoText(info employee.Info, colorize bool) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	rows := [][2]string{
		{"NAME", info.Name},
		{"DEPARTMENT", string(info.Department)},
		{"ROLE", info.Role},
		{"YEARS", fmt.Sprintf("%d", info.Years)},
	}
	for _, row := range rows {
		label := row[0]
		if colorize {
			label = colorBold + label + colorReset
		}
		fmt.Fprintf(tw, "%s\t%s\n", label, row[1])
	}
	return tw.Flush()
}
