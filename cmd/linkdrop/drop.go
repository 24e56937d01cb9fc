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

package main

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/linkdrop/pkg/drop"
	"github.com/walteh/linkdrop/pkg/log"
	"gitlab.com/tozd/go/errors"
)

type dropFlags struct {
	targetFlags
	line   int
	print  bool
	dryRun bool
}

func newDropCommand(a *app) *cobra.Command {
	flags := &dropFlags{}

	cmd := &cobra.Command{
		Use:   "drop <document> <file>...",
		Short: "Copy files next to a document and insert links to them",
		Long: `Copy each file whose extension is allowed into the folder selected by the
destination rules, then insert one [[relative/path|name]] link per copied file
into the document.

Existing files are either overwritten or the copy is renamed with a numeric
suffix (report-1.pdf, report-2.pdf, ...), depending on the overwrite behavior.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDrop(cmd, flags, args[0], args[1:])
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&flags.line, "line", "l", 0, "1-based line to insert links before (default: end of document)")
	cmd.Flags().BoolVarP(&flags.print, "print", "p", false, "print the link text instead of inserting it into the document")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "show what would be copied without touching any file")

	return cmd
}

func (a *app) runDrop(cmd *cobra.Command, flags *dropFlags, document string, items []string) error {
	ctx := cmd.Context()
	logger := log.FromContext(ctx)

	if flags.line < 0 {
		return errors.Errorf("line must not be negative: %d", flags.line)
	}

	sess, err := a.prepare(ctx, &flags.targetFlags, document)
	if err != nil {
		return err
	}

	proc, err := drop.New(drop.Options{Fs: a.fs, Notifier: logger})
	if err != nil {
		return errors.Errorf("creating processor: %w", err)
	}

	if flags.dryRun {
		logger.Header(fmt.Sprintf("planning %d dropped file(s)", len(items)))
	} else {
		logger.Header(fmt.Sprintf("copying %d dropped file(s)", len(items)))
	}

	logger.StartDropOperation(ctx, log.DropOperation{
		Document:  sess.document,
		Workspace: sess.workspace,
		Items:     len(items),
		DryRun:    flags.dryRun,
	})

	edit, err := proc.Process(ctx, drop.Event{
		DocumentPath:  sess.document,
		WorkspaceRoot: sess.workspace,
		Items:         items,
	}, sess.settings)
	if err != nil {
		logger.EndDropOperation(ctx)
		return err
	}

	if flags.dryRun {
		proc.Plan(ctx, edit)
		ops := logger.EndDropOperation(ctx)
		writeSummary(a.stderr, ops)
		_, err := fmt.Fprint(a.stdout, edit.InsertText())
		return err
	}

	applied, applyErr := proc.Apply(ctx, edit)
	ops := logger.EndDropOperation(ctx)
	writeSummary(a.stderr, ops)

	// links for copies that landed are kept even when the batch was cancelled
	if !applied.Empty() {
		if flags.print {
			if _, err := fmt.Fprint(a.stdout, applied.InsertText()); err != nil {
				return errors.Errorf("writing links: %w", err)
			}
		} else if err := drop.InsertIntoDocument(a.fs, sess.document, flags.line, applied.InsertText()); err != nil {
			logger.Errorf("Failed to insert links into %s: %v", sess.document, err)
			return err
		}
	}

	if applyErr != nil {
		return applyErr
	}

	if applied.Empty() && countFailed(ops) > 0 {
		return errors.Errorf("no files were copied")
	}

	if !applied.Empty() {
		logger.Successf("linked %d file(s) into %s", len(applied.Files), sess.document)
	}
	return nil
}

func countFailed(ops []log.FileOperation) int {
	n := 0
	for _, op := range ops {
		if op.IsFailed {
			n++
		}
	}
	return n
}

// writeSummary renders outcome counts, skipped when nothing was attempted
func writeSummary(w io.Writer, ops []log.FileOperation) {
	if len(ops) == 0 {
		return
	}

	var copied, renamed, overwritten, skipped, failed int
	for _, op := range ops {
		switch {
		case op.IsFailed:
			failed++
		case op.IsSkipped:
			skipped++
		case op.IsOverwrite:
			overwritten++
		case op.IsRenamed:
			renamed++
		default:
			copied++
		}
	}

	data := pterm.TableData{
		{"copied", "renamed", "overwritten", "skipped", "failed"},
		{fmt.Sprint(copied), fmt.Sprint(renamed), fmt.Sprint(overwritten), fmt.Sprint(skipped), fmt.Sprint(failed)},
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return
	}
	fmt.Fprintln(w, out)
}
