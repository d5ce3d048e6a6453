// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output for scripting (--json).
//
// Every command writes the same envelope:
//
//	{"success": true, "data": {...}, "error": null, "timestamp": "...", "command": "ask"}

package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/jeranaias/selfjustice/internal/model"
)

// JSONResponse is the envelope for every --json output. Error is null on
// success; Data is null on failure.
type JSONResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Error     *string     `json:"error"`
	Timestamp string      `json:"timestamp"` // RFC3339, UTC
	Command   string      `json:"command,omitempty"`
}

func newEnvelope(command string) *JSONResponse {
	return &JSONResponse{
		Command:   command,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewJSONResponse wraps the data of a successful command.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	r := newEnvelope(command)
	r.Success = true
	r.Data = data
	return r
}

// NewJSONErrorResponse wraps a command failure.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	r := newEnvelope(command)
	r.Error = &msg
	return r
}

// Fprint writes the response as indented JSON.
func (r *JSONResponse) Fprint(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// VersionData is the data of "version --json".
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// AskData is the data of "ask --json". Messages holds the question and the
// reply; Failed is set when the reply is a failure message.
type AskData struct {
	Query    string          `json:"query"`
	Response string          `json:"response"`
	Failed   bool            `json:"failed"`
	Messages []model.Message `json:"messages"`
}

// ConfigData is the data of "config show --json" and "config get --json".
type ConfigData struct {
	Path     string                 `json:"path,omitempty"`
	Settings map[string]interface{} `json:"settings"`
}
