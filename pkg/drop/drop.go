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
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/linkdrop/pkg/log"
	"github.com/walteh/linkdrop/pkg/resolve"
	"gitlab.com/tozd/go/errors"
)

// 📢 User-facing messages
const (
	MsgNoWorkspace          = "File drop failed: no workspace folder detected."
	MsgUnsupportedExtension = "File extension not supported"
	MsgNoUniqueName         = "Cannot create unique file name, too many duplicates."
)

// 📢 Notifier receives user notifications; *log.Logger implements it
type Notifier interface {
	Info(msg string)
	Warning(msg string)
	Error(msg string)
	LogFileOperation(ctx context.Context, op log.FileOperation)
}

// 📦 Event is one drop or paste into a document
type Event struct {
	DocumentPath  string
	WorkspaceRoot string
	Items         []string // source file paths, in transfer order
}

// 🔧 Settings are the configuration values a drop needs
type Settings struct {
	Rules      resolve.RuleSet
	Policy     resolve.OverwritePolicy
	Extensions Extensions
}

// 📄 FileCreate is one planned copy
type FileCreate struct {
	Source      string // file being dropped
	Destination string // absolute destination path
	Link        string // [[relative|name]] text for this file
	Suffix      int    // numeric suffix added to avoid a collision
	Overwrite   bool   // destination exists and will be replaced
}

// 🏷️ Status describes the planned outcome for display
func (f FileCreate) Status() string {
	switch {
	case f.Suffix > 0:
		return "renamed"
	case f.Overwrite:
		return "overwritten"
	default:
		return "copied"
	}
}

// 📝 Operation converts the entry to a log line, relative to the document folder
func (f FileCreate) Operation(document, status string) log.FileOperation {
	dest := f.Destination
	if rel, err := filepath.Rel(filepath.Dir(document), f.Destination); err == nil {
		dest = filepath.ToSlash(rel)
	}
	return log.FileOperation{
		Source:      filepath.Base(f.Source),
		Destination: dest,
		Status:      status,
		IsRenamed:   f.Suffix > 0,
		IsOverwrite: f.Overwrite && f.Suffix == 0,
	}
}

// 📚 Edit is the ordered set of copies plus the text to insert
type Edit struct {
	Document string
	Files    []FileCreate
}

// 📝 InsertText returns one link per line, each newline terminated
func (e *Edit) InsertText() string {
	var sb strings.Builder
	for _, f := range e.Files {
		sb.WriteString(f.Link)
		sb.WriteString("\n")
	}
	return sb.String()
}

// 🔍 Empty reports whether nothing is to be copied
func (e *Edit) Empty() bool {
	return e == nil || len(e.Files) == 0
}

// 🔧 Options configures a Processor
type Options struct {
	Fs       afero.Fs // filesystem for sources, destinations and documents
	Notifier Notifier // user notifications, silent when nil
}

// 🎯 Processor plans and applies drops
type Processor struct {
	fs       afero.Fs
	notifier Notifier
}

// 🏭 New creates a processor
func New(opts Options) (*Processor, error) {
	if opts.Fs == nil {
		return nil, errors.Errorf("filesystem is required")
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = log.New(io.Discard, zerolog.Nop())
	}
	return &Processor{fs: opts.Fs, notifier: notifier}, nil
}

// 🔗 Link formats [[<dest relative to the document folder>|<source base name>]]
func Link(document, destination, source string) (string, error) {
	rel, err := filepath.Rel(filepath.Dir(document), destination)
	if err != nil {
		return "", errors.Errorf("relating %s to %s: %w", destination, document, err)
	}
	return fmt.Sprintf("[[%s|%s]]", filepath.ToSlash(rel), filepath.Base(source)), nil
}

// 🏃 Process plans the copies for ev. On cancellation the partial edit is returned with the error.
func (p *Processor) Process(ctx context.Context, ev Event, s Settings) (*Edit, error) {
	logger := zerolog.Ctx(ctx)

	if ev.WorkspaceRoot == "" {
		p.notifier.Error(MsgNoWorkspace)
		return nil, errors.Errorf("processing drop into %s: %w", ev.DocumentPath, resolve.ErrNoWorkspaceRoot)
	}

	claims := NewClaimingProber(resolve.NewFsProber(p.fs))
	resolver := resolve.New(claims)
	edit := &Edit{Document: ev.DocumentPath}

	for _, item := range ev.Items {
		if err := ctx.Err(); err != nil {
			return edit, errors.Errorf("processing drop: %w", err)
		}

		name := filepath.Base(item)
		skip := func(status string) {
			p.notifier.LogFileOperation(ctx, log.FileOperation{Source: name, Status: status, IsSkipped: true})
		}

		if !s.Extensions.Allows(item) {
			logger.Debug().Str("item", item).Str("allowed", s.Extensions.String()).Msg("skipping unsupported extension")
			p.notifier.Info(MsgUnsupportedExtension)
			skip("unsupported")
			continue
		}

		info, err := p.fs.Stat(item)
		if err != nil {
			p.notifier.Error(fmt.Sprintf("Failed to read %s: %v", name, err))
			p.notifier.LogFileOperation(ctx, log.FileOperation{Source: name, Status: "unreadable", IsFailed: true})
			continue
		}
		if info.IsDir() {
			logger.Debug().Str("item", item).Msg("skipping directory")
			p.notifier.Warning(fmt.Sprintf("Skipping %s: folders cannot be dropped", name))
			skip("directory")
			continue
		}

		dest, err := resolver.Resolve(ctx, resolve.Request{
			WorkspaceRoot: ev.WorkspaceRoot,
			DocumentPath:  ev.DocumentPath,
			SourcePath:    item,
			Rules:         s.Rules,
			Policy:        s.Policy,
		})
		switch {
		case errors.Is(err, resolve.ErrNoWorkspaceRoot):
			p.notifier.Error(MsgNoWorkspace)
			return nil, errors.Errorf("processing drop into %s: %w", ev.DocumentPath, err)
		case errors.Is(err, resolve.ErrNoUniqueName):
			p.notifier.Error(MsgNoUniqueName)
			p.notifier.LogFileOperation(ctx, log.FileOperation{Source: name, Status: "no unique name", IsFailed: true})
			continue
		case err != nil:
			p.notifier.Error(fmt.Sprintf("Failed to resolve destination for %s: %v", name, err))
			p.notifier.LogFileOperation(ctx, log.FileOperation{Source: name, Status: "failed", IsFailed: true})
			continue
		}
		claims.Claim(dest.Path)

		link, err := Link(ev.DocumentPath, dest.Path, item)
		if err != nil {
			p.notifier.Error(fmt.Sprintf("Failed to build link for %s: %v", name, err))
			continue
		}

		edit.Files = append(edit.Files, FileCreate{
			Source:      item,
			Destination: dest.Path,
			Link:        link,
			Suffix:      dest.Suffix,
			Overwrite:   dest.Existed && dest.Suffix == 0,
		})
	}

	return edit, nil
}

// 🧷 ClaimingProber treats destinations claimed earlier in the same batch as taken,
// so two items with the same name never resolve to the same path
type ClaimingProber struct {
	next    resolve.Prober
	claimed map[string]bool
}

// 🏭 NewClaimingProber wraps next
func NewClaimingProber(next resolve.Prober) *ClaimingProber {
	return &ClaimingProber{next: next, claimed: map[string]bool{}}
}

// Claim marks path as taken for the rest of the batch
func (c *ClaimingProber) Claim(path string) {
	c.claimed[filepath.Clean(path)] = true
}

func (c *ClaimingProber) Exists(ctx context.Context, path string) (bool, error) {
	if c.claimed[filepath.Clean(path)] {
		return true, nil
	}
	return c.next.Exists(ctx, path)
}
