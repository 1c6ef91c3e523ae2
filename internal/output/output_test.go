package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/bimmerbailey/dumpsong/internal/employee"
)

var testInfo = employee.Info{
	Name:       "Jane Doe",
	Department: employee.Sales,
	Role:       employee.DefaultRole,
	Years:      4,
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json": FormatJSON,
		"JSON": FormatJSON,
		"yaml": FormatYAML,
		"yml":  FormatYAML,
		"text": FormatText,
		"":     FormatText,
		"xml":  FormatText,
	}
	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteInfo_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := New(buf, FormatText).WriteInfo(testInfo, ColorNever); err != nil {
		t.Fatalf("WriteInfo() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"NAME", "Jane Doe", "DEPARTMENT", "Sales", "ROLE", "Employee", "YEARS", "4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("ColorNever output contains escape codes:\n%s", out)
	}
}

func TestWriteInfo_TextColorAlways(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := New(buf, FormatText).WriteInfo(testInfo, ColorAlways); err != nil {
		t.Fatalf("WriteInfo() error: %v", err)
	}
	if !strings.Contains(buf.String(), colorBold) {
		t.Errorf("ColorAlways labels should be bold:\n%s", buf.String())
	}
}

func TestWriteInfo_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := New(buf, FormatJSON).WriteInfo(testInfo, ColorAuto); err != nil {
		t.Fatalf("WriteInfo() error: %v", err)
	}

	var got employee.Info
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if diff := cmp.Diff(testInfo, got); diff != "" {
		t.Errorf("JSON round trip mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), `"department": "Sales"`) {
		t.Errorf("JSON should be indented with lower-case keys:\n%s", buf.String())
	}
}

func TestWriteSong_YAML(t *testing.T) {
	song := Song{Employee: testInfo, Lyrics: "line one\nline two", VideoURL: "https://example.com/a.mp4"}

	buf := &bytes.Buffer{}
	if err := New(buf, FormatYAML).WriteSong(song, ColorAuto); err != nil {
		t.Fatalf("WriteSong() error: %v", err)
	}

	var got Song
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML %q: %v", buf.String(), err)
	}
	if diff := cmp.Diff(song, got); diff != "" {
		t.Errorf("YAML mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), "video_url:") {
		t.Errorf("YAML should use snake_case keys:\n%s", buf.String())
	}
}

func TestWriteSong_Text(t *testing.T) {
	song := Song{Employee: testInfo, Lyrics: testLyrics}

	t.Run("ColorNever", func(t *testing.T) {
		buf := &bytes.Buffer{}
		if err := New(buf, FormatText).WriteSong(song, ColorNever); err != nil {
			t.Fatalf("WriteSong() error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, testLyrics) {
			t.Errorf("lyrics should be printed verbatim:\n%s", out)
		}
		if strings.Contains(out, "video:") {
			t.Error("empty video URL should not be printed")
		}
	})

	t.Run("ColorAlways", func(t *testing.T) {
		buf := &bytes.Buffer{}
		if err := New(buf, FormatText).WriteSong(song, ColorAlways); err != nil {
			t.Fatalf("WriteSong() error: %v", err)
		}
		if !strings.Contains(buf.String(), colorYellow) {
			t.Errorf("tagline should be colored:\n%s", buf.String())
		}
	})

	t.Run("with video", func(t *testing.T) {
		buf := &bytes.Buffer{}
		withVideo := song
		withVideo.VideoURL = "https://example.com/a.mp4"
		if err := New(buf, FormatText).WriteSong(withVideo, ColorNever); err != nil {
			t.Fatalf("WriteSong() error: %v", err)
		}
		if !strings.Contains(buf.String(), "video: https://example.com/a.mp4") {
			t.Errorf("video URL missing:\n%s", buf.String())
		}
	})
}
