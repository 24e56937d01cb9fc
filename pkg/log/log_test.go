// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileLine builds the expected trimmed line for a file operation
func fileLine(symbol, source, dest, status string) string {
	return fmt.Sprintf("%s %-*s %-*s %s", symbol, nameWidth, source, destWidth, dest, status)
}

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_file_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileOperation(context.Background(), FileOperation{
					Source:      "report.pdf",
					Destination: "assets/report.pdf",
					Status:      "copied",
				})
			},
			wantLogs: []string{
				fileLine("✓", "report.pdf", "assets/report.pdf", "copied"),
			},
		},
		{
			name: "log_drop_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartDropOperation(context.Background(), DropOperation{
					Document:  "notes.md",
					Workspace: "/ws",
					Items:     2,
				})
			},
			wantLogs: []string{
				"[dropping into notes.md]",
			},
		},
		{
			name: "log_dry_run_drop_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartDropOperation(context.Background(), DropOperation{
					Document: "notes.md",
					DryRun:   true,
				})
			},
			wantLogs: []string{
				"[planning drop into notes.md]",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("copying dropped files")
			},
			wantLogs: []string{
				"linkdrop • copying dropped files",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.New(zerolog.NewTestWriter(t)))

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, strings.TrimSpace(want), strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestFileOperationFormatting(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "copied_file",
			op:   FileOperation{Source: "a.pdf", Destination: "a.pdf", Status: "copied"},
			want: fileLine("✓", "a.pdf", "a.pdf", "copied"),
		},
		{
			name: "renamed_file",
			op:   FileOperation{Source: "a.pdf", Destination: "assets/a-1.pdf", Status: "renamed", IsRenamed: true},
			want: fileLine("+", "a.pdf", "assets/a-1.pdf", "renamed"),
		},
		{
			name: "overwritten_file",
			op:   FileOperation{Source: "a.pdf", Destination: "assets/a.pdf", Status: "overwritten", IsOverwrite: true},
			want: fileLine("⟳", "a.pdf", "assets/a.pdf", "overwritten"),
		},
		{
			name: "skipped_file",
			op:   FileOperation{Source: "a.png", Status: "unsupported", IsSkipped: true},
			want: fileLine("-", "a.png", "-", "unsupported"),
		},
		{
			name: "failed_file",
			op:   FileOperation{Source: "a.pdf", Destination: "assets/a.pdf", Status: "failed", IsFailed: true, IsRenamed: true},
			want: fileLine("✗", "a.pdf", "assets/a.pdf", "failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())

			logger.LogFileOperation(context.Background(), tt.op)

			assert.Equal(t, strings.TrimSpace(tt.want), strings.TrimSpace(buf.String()), "formatted output should match")
		})
	}
}

func TestEndDropOperation(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())
	ctx := context.Background()

	assert.Nil(t, logger.EndDropOperation(ctx), "ending without a start should return nothing")

	logger.StartDropOperation(ctx, DropOperation{Document: "notes.md", Items: 2})
	logger.LogFileOperation(ctx, FileOperation{Source: "a.pdf", Status: "copied"})
	logger.LogFileOperation(ctx, FileOperation{Source: "b.pdf", Status: "failed", IsFailed: true})

	ops := logger.EndDropOperation(ctx)
	require.Len(t, ops, 2)
	assert.Equal(t, "a.pdf", ops[0].Source)
	assert.True(t, ops[1].IsFailed)
	assert.Nil(t, logger.EndDropOperation(ctx), "operation should be closed")
}
