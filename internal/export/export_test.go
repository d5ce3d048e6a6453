// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/selfjustice/internal/model"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleConversation() *model.Conversation {
	conv := model.NewConversation(4)
	conv.Append(model.NewUserMessage("Can my landlord keep my deposit?"))
	conv.Append(model.NewAssistantMessage(`You said: "Can my landlord keep my deposit?". This is a mock response.`))
	return conv
}

func testOptions(dir string) *Options {
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

// =============================================================================
// MARKDOWN TESTS
// =============================================================================

func TestMarkdownExporter_Export(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions(".")).Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	result := string(out)

	for _, want := range []string{
		"---\ntitle: Can my landlord keep my deposi...\n",
		"conversation: 4\n",
		"messages: 2\n",
		"exported: 2025-03-14T09:30:00Z\n",
		"generator: selfjustice\n",
		"# Can my landlord keep my deposi...\n",
		"### You <sub>",
		"### Legal AI <sub>",
		"Legal AI can make mistakes.",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("markdown missing %q\n%s", want, result)
		}
	}

	if strings.Index(result, "### You") > strings.Index(result, "### Legal AI") {
		t.Error("messages out of order")
	}
}

func TestMarkdownExporter_NoMetadata(t *testing.T) {
	opts := testOptions(".")
	opts.IncludeMetadata = false
	opts.IncludeTimestamps = false

	out, err := NewMarkdownExporter(opts).Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	result := string(out)

	if strings.HasPrefix(result, "---") {
		t.Error("front matter should be omitted")
	}
	if strings.Contains(result, "<sub>") {
		t.Error("timestamps should be omitted")
	}
	if !strings.Contains(result, "### You\n") {
		t.Error("expected plain role heading")
	}
}

func TestMarkdownExporter_FailedReply(t *testing.T) {
	conv := model.NewConversation(1)
	conv.Append(model.NewUserMessage("hi"))
	conv.Append(model.NewFailedMessage("The response took too long."))

	out, err := NewMarkdownExporter(testOptions(".")).Export(conv)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(string(out), "Legal AI (failed)") {
		t.Error("failed reply should be labelled")
	}
	if !strings.Contains(string(out), "> The response took too long.") {
		t.Error("failed reply should be quoted")
	}
}

func TestMarkdownExporter_YAMLEscaping(t *testing.T) {
	conv := model.NewConversation(1)
	conv.Append(model.NewUserMessage(`Re: "lease" \ clause`))

	out, err := NewMarkdownExporter(testOptions(".")).Export(conv)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(string(out), `title: "Re: \"lease\" \\ clause..."`) {
		t.Errorf("title not escaped:\n%s", out)
	}
}

func TestExporters_EmptyConversation(t *testing.T) {
	for _, exporter := range []Exporter{NewMarkdownExporter(nil), NewJSONExporter(nil)} {
		_, err := exporter.Export(model.NewConversation(1))
		if !errors.Is(err, ErrEmptyConversation) {
			t.Errorf("%T: expected ErrEmptyConversation, got %v", exporter, err)
		}
		if _, err := exporter.Export(nil); err == nil {
			t.Errorf("%T: expected error for nil conversation", exporter)
		}
	}
}

// =============================================================================
// JSON TESTS
// =============================================================================

func TestJSONExporter_Export(t *testing.T) {
	out, err := NewJSONExporter(testOptions(".")).Export(sampleConversation())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Generator != Generator {
		t.Errorf("generator = %q", doc.Generator)
	}
	if !doc.ExportedAt.Equal(fixedNow) {
		t.Errorf("exported_at = %v", doc.ExportedAt)
	}
	if doc.Conversation.ID != 4 || doc.Conversation.Len() != 2 {
		t.Errorf("conversation = id %d, %d messages", doc.Conversation.ID, doc.Conversation.Len())
	}
	if !doc.Conversation.Messages()[0].IsUser {
		t.Error("first message should be the user's")
	}
}

// =============================================================================
// FILE TESTS
// =============================================================================

func TestExport_WritesFile(t *testing.T) {
	dir := t.TempDir()

	for _, format := range []string{"md", "json"} {
		path, err := Export(sampleConversation(), format, testOptions(dir))
		if err != nil {
			t.Fatalf("Export(%s) failed: %v", format, err)
		}
		if filepath.Dir(path) != dir {
			t.Errorf("file written to %s, want %s", filepath.Dir(path), dir)
		}
		if !strings.HasPrefix(filepath.Base(path), "conversation_4_Can_my_landlord") {
			t.Errorf("unexpected filename %s", filepath.Base(path))
		}
		if !strings.Contains(path, "20250314_093000") {
			t.Errorf("filename missing timestamp: %s", path)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("file not created: %v", err)
		}
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	if _, err := Export(sampleConversation(), "pdf", testOptions(t.TempDir())); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"md", ".md"},
		{"Markdown", ".md"},
		{"", ".md"},
		{"json", ".json"},
	}

	for _, tc := range tests {
		exporter, err := ForFormat(tc.format, nil)
		if err != nil {
			t.Fatalf("ForFormat(%q) failed: %v", tc.format, err)
		}
		if exporter.FileExtension() != tc.ext {
			t.Errorf("ForFormat(%q) extension = %s, want %s", tc.format, exporter.FileExtension(), tc.ext)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "conversation"},
		{"simple", "simple"},
		{"a/b\\c:d", "a-b-c-d"},
		{"two words", "two_words"},
		{"what? <now>", "what-_-now-"},
		{"v1.2", "v1-2"},
		{"line\nbreak", "line_break"},
	}

	for _, tc := range tests {
		if got := sanitizeFilename(tc.input); got != tc.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}

	long := strings.Repeat("x", 100)
	if n := len([]rune(sanitizeFilename(long))); n > 40 {
		t.Errorf("sanitized name too long: %d runes", n)
	}
}
