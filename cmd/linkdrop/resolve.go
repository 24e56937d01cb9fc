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
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/linkdrop/pkg/drop"
	"github.com/walteh/linkdrop/pkg/resolve"
	"gitlab.com/tozd/go/errors"
)

type resolveFlags struct {
	targetFlags
	plain bool
}

func newResolveCommand(a *app) *cobra.Command {
	flags := &resolveFlags{}

	cmd := &cobra.Command{
		Use:   "resolve <document> <file>...",
		Short: "Show where files would be copied",
		Long: `Resolve the destination of each file for the given document without copying
anything. Files with an unsupported extension are listed as skipped.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runResolve(cmd, flags, args[0], args[1:])
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.plain, "plain", false, "print one destination path per line")

	return cmd
}

func (a *app) runResolve(cmd *cobra.Command, flags *resolveFlags, document string, items []string) error {
	ctx := cmd.Context()

	sess, err := a.prepare(ctx, &flags.targetFlags, document)
	if err != nil {
		return err
	}

	claims := drop.NewClaimingProber(resolve.NewFsProber(a.fs))
	resolver := resolve.New(claims)

	data := pterm.TableData{{"file", "destination", "link", "note"}}
	for _, item := range items {
		name := filepath.Base(item)
		if !sess.settings.Extensions.Allows(item) {
			data = append(data, []string{name, "-", "-", "unsupported"})
			continue
		}

		dest, err := resolver.Resolve(ctx, resolve.Request{
			WorkspaceRoot: sess.workspace,
			DocumentPath:  sess.document,
			SourcePath:    item,
			Rules:         sess.settings.Rules,
			Policy:        sess.settings.Policy,
		})
		switch {
		case errors.Is(err, resolve.ErrNoUniqueName):
			data = append(data, []string{name, "-", "-", "no unique name"})
			continue
		case err != nil:
			return errors.Errorf("resolving %s: %w", item, err)
		}

		claims.Claim(dest.Path)

		link, err := drop.Link(sess.document, dest.Path, item)
		if err != nil {
			return err
		}

		note := "new"
		switch {
		case dest.Suffix > 0:
			note = fmt.Sprintf("renamed (-%d)", dest.Suffix)
		case dest.Existed:
			note = "overwrite"
		}

		if flags.plain {
			fmt.Fprintln(a.stdout, dest.Path)
			continue
		}
		data = append(data, []string{name, dest.Path, link, note})
	}

	if flags.plain {
		return nil
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering table: %w", err)
	}
	_, err = fmt.Fprintln(a.stdout, out)
	return err
}
