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

package drop

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/linkdrop/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// 🏃 Apply copies every planned file in order and returns the entries that landed.
// A failed copy is reported and skipped. On cancellation the landed entries are
// returned together with the error; nothing is rolled back.
func (p *Processor) Apply(ctx context.Context, edit *Edit) (*Edit, error) {
	logger := zerolog.Ctx(ctx)
	applied := &Edit{Document: edit.Document}

	for _, f := range edit.Files {
		if err := ctx.Err(); err != nil {
			return applied, errors.Errorf("applying drop: %w", err)
		}

		if err := p.copyFile(f.Source, f.Destination); err != nil {
			logger.Error().Err(err).Str("source", f.Source).Str("destination", f.Destination).Msg("copy failed")
			p.notifier.Error(fmt.Sprintf("Failed to copy %s: %v", filepath.Base(f.Source), err))
			op := f.Operation(edit.Document, "failed")
			op.IsFailed = true
			p.notifier.LogFileOperation(ctx, op)
			continue
		}

		p.notifier.LogFileOperation(ctx, f.Operation(edit.Document, f.Status()))
		applied.Files = append(applied.Files, f)
	}

	return applied, nil
}

// 📋 copyFile copies src to dst through a temp file, creating parent folders
func (p *Processor) copyFile(src, dst string) error {
	in, err := p.fs.Open(src)
	if err != nil {
		return errors.Errorf("opening source: %w", err)
	}
	defer in.Close()

	if err := p.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	return writeFileAtomic(p.fs, dst, in)
}

// 💾 writeFileAtomic writes to a fresh hidden temp file beside path and renames it over path
func writeFileAtomic(fs afero.Fs, path string, r io.Reader) error {
	out, err := afero.TempFile(fs, filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := out.Name()

	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		fs.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := out.Close(); err != nil {
		fs.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := fs.Chmod(tempPath, 0o644); err != nil {
		fs.Remove(tempPath)
		return errors.Errorf("setting temp file mode: %w", err)
	}

	if err := fs.Rename(tempPath, path); err != nil {
		fs.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// ✍️ InsertIntoDocument inserts text before the 1-based line. A line of 0 or past
// the end appends, starting a new line when the document lacks a trailing newline.
func InsertIntoDocument(fs afero.Fs, document string, line int, text string) error {
	content, err := afero.ReadFile(fs, document)
	if err != nil {
		return errors.Errorf("reading document: %w", err)
	}

	updated := insertAtLine(content, line, text)
	if err := writeFileAtomic(fs, document, bytes.NewReader(updated)); err != nil {
		return errors.Errorf("writing document: %w", err)
	}
	return nil
}

func insertAtLine(content []byte, line int, text string) []byte {
	offset := -1
	if line > 0 {
		offset = 0
		for n := 1; n < line; n++ {
			idx := bytes.IndexByte(content[offset:], '\n')
			if idx < 0 {
				offset = -1
				break
			}
			offset += idx + 1
		}
		if offset == len(content) {
			offset = -1
		}
	}

	var buf bytes.Buffer
	if offset < 0 {
		buf.Write(content)
		if len(content) > 0 && content[len(content)-1] != '\n' {
			buf.WriteByte('\n')
		}
		buf.WriteString(text)
		return buf.Bytes()
	}

	buf.Write(content[:offset])
	buf.WriteString(text)
	buf.Write(content[offset:])
	return buf.Bytes()
}

// 📝 Plan reports the planned entries without copying
func (p *Processor) Plan(ctx context.Context, edit *Edit) {
	for _, f := range edit.Files {
		op := f.Operation(edit.Document, "planned")
		p.notifier.LogFileOperation(ctx, op)
	}
}

var _ Notifier = (*log.Logger)(nil)
