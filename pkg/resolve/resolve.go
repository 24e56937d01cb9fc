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

package resolve

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

const (
	// 🏷️ DocumentBaseNamePlaceholder is replaced with the document name without its extension
	DocumentBaseNamePlaceholder = "${documentBaseName}"

	// 📁 DefaultTemplate places copied files in the document's own folder
	DefaultTemplate = ""

	// 🔢 MaxRenameAttempts bounds the numeric suffix search
	MaxRenameAttempts = 100
)

var (
	// ErrNoUniqueName is returned when every suffixed candidate already exists
	ErrNoUniqueName = errors.Base("cannot create unique file name, too many duplicates")

	// ErrNoWorkspaceRoot is returned when the document has no usable workspace root
	ErrNoWorkspaceRoot = errors.Base("no workspace folder detected")
)

// 🔄 OverwritePolicy decides what happens when the destination already exists
type OverwritePolicy string

const (
	NameIncrementally OverwritePolicy = "name-incrementally" // append -1, -2, ... before the extension
	Overwrite         OverwritePolicy = "overwrite"          // keep the colliding path, the caller replaces it
)

// 🔍 ParseOverwritePolicy accepts both the dashed and the editor's camel-case spelling
func ParseOverwritePolicy(s string) (OverwritePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name-incrementally", "nameincrementally", "name_incrementally":
		return NameIncrementally, nil
	case "overwrite":
		return Overwrite, nil
	default:
		return "", errors.Errorf("unknown overwrite behavior %q (want %q or %q)", s, NameIncrementally, Overwrite)
	}
}

func (p OverwritePolicy) String() string {
	return string(p)
}

// 📏 Rule maps a glob over the document's workspace-relative path to a folder template
type Rule struct {
	Pattern  string `json:"pattern" yaml:"pattern"`
	Template string `json:"template" yaml:"template"`
}

// 📚 RuleSet is evaluated in order, first match wins
type RuleSet []Rule

// 🎯 Match returns the first rule whose pattern matches rel.
// Invalid patterns never match.
func (rs RuleSet) Match(ctx context.Context, rel string) (Rule, bool) {
	logger := zerolog.Ctx(ctx)
	for _, rule := range rs {
		matched, err := doublestar.Match(rule.Pattern, rel)
		if err != nil {
			logger.Debug().Str("pattern", rule.Pattern).Str("path", rel).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			logger.Debug().Str("pattern", rule.Pattern).Str("path", rel).Str("template", rule.Template).Msg("destination rule matched")
			return rule, true
		}
	}
	return Rule{}, false
}

// 🔌 Prober answers whether a path exists. It must not modify anything.
type Prober interface {
	Exists(ctx context.Context, path string) (bool, error)
}

type fsProber struct {
	fs afero.Fs
}

// 🏭 NewFsProber returns a Prober backed by an afero filesystem
func NewFsProber(fs afero.Fs) Prober {
	return &fsProber{fs: fs}
}

func (p *fsProber) Exists(ctx context.Context, path string) (bool, error) {
	ok, err := afero.Exists(p.fs, path)
	if err != nil {
		return false, errors.Errorf("checking %s: %w", path, err)
	}
	return ok, nil
}

// 📦 Request holds everything one resolution needs
type Request struct {
	WorkspaceRoot string
	DocumentPath  string
	SourcePath    string
	Rules         RuleSet
	Policy        OverwritePolicy
}

// 📍 Destination is a resolved target path
type Destination struct {
	Path    string // absolute path, native separators
	Dir     string // folder the file goes into
	Existed bool   // the unsuffixed candidate was already present
	Suffix  int    // numeric suffix used, 0 when none
}

// 🎯 Resolver computes destinations against a Prober
type Resolver struct {
	prober Prober
}

// 🏭 New creates a resolver
func New(prober Prober) *Resolver {
	return &Resolver{prober: prober}
}

// 🎯 Resolve computes the destination for req.SourcePath
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Destination, error) {
	logger := zerolog.Ctx(ctx)

	rel, err := RelativeDocumentPath(req.WorkspaceRoot, req.DocumentPath)
	if err != nil {
		return nil, err
	}

	template := DefaultTemplate
	if rule, ok := req.Rules.Match(ctx, rel); ok {
		template = rule.Template
	}

	dir := DestinationDir(req.DocumentPath, ExpandTemplate(template, req.DocumentPath))
	name := filepath.Base(req.SourcePath)
	candidate := filepath.Join(dir, name)

	exists, err := r.prober.Exists(ctx, candidate)
	if err != nil {
		return nil, errors.Errorf("probing destination: %w", err)
	}

	dest := &Destination{Path: candidate, Dir: dir, Existed: exists}
	if !exists || req.Policy == Overwrite {
		logger.Debug().Str("destination", candidate).Bool("existed", exists).Msg("destination resolved")
		return dest, nil
	}

	for n := 1; n <= MaxRenameAttempts; n++ {
		candidate = filepath.Join(dir, SuffixedName(name, n))
		exists, err := r.prober.Exists(ctx, candidate)
		if err != nil {
			return nil, errors.Errorf("probing destination: %w", err)
		}
		if !exists {
			dest.Path = candidate
			dest.Suffix = n
			logger.Debug().Str("destination", candidate).Int("suffix", n).Msg("destination renamed")
			return dest, nil
		}
	}

	return nil, errors.Errorf("resolving %s in %s: %w", name, dir, ErrNoUniqueName)
}

// 📐 RelativeDocumentPath returns the document path relative to root with / separators
func RelativeDocumentPath(root, document string) (string, error) {
	if root == "" {
		return "", errors.Errorf("resolving %s: %w", document, ErrNoWorkspaceRoot)
	}
	rel, err := filepath.Rel(root, document)
	if err != nil {
		return "", errors.Errorf("relating %s to %s: %w", document, root, ErrNoWorkspaceRoot)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Errorf("%s is outside %s: %w", document, root, ErrNoWorkspaceRoot)
	}
	return filepath.ToSlash(rel), nil
}

// 🏷️ DocumentBaseName is the document's file name without its extension
func DocumentBaseName(document string) string {
	stem, _ := splitExt(filepath.Base(document))
	return stem
}

// 🔄 ExpandTemplate substitutes every ${documentBaseName} in template
func ExpandTemplate(template, document string) string {
	return strings.ReplaceAll(template, DocumentBaseNamePlaceholder, DocumentBaseName(document))
}

// 📁 DestinationDir resolves an expanded template against the document's folder
func DestinationDir(document, expanded string) string {
	return filepath.Join(filepath.Dir(document), filepath.FromSlash(expanded))
}

// 🔢 SuffixedName inserts -n before the extension: report.pdf -> report-3.pdf
func SuffixedName(name string, n int) string {
	stem, ext := splitExt(name)
	return fmt.Sprintf("%s-%d%s", stem, n, ext)
}

// splitExt treats a leading-dot name such as .env as having no extension
func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}
