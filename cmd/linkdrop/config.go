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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/linkdrop/pkg/config"
	"github.com/walteh/linkdrop/pkg/workspace"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(a *app) *cobra.Command {
	flags := &targetFlags{}

	cmd := &cobra.Command{
		Use:   "config [document]",
		Short: "Print the effective configuration",
		Long: `Print the configuration that applies to the given document (or the current
directory) as YAML, followed by the files it was merged from.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var cfg *config.Config
			if len(args) == 1 {
				sess, err := a.prepare(ctx, flags, args[0])
				if err != nil {
					return err
				}
				cfg = sess.config
			} else {
				cwd, err := os.Getwd()
				if err != nil {
					return errors.Errorf("getting working directory: %w", err)
				}
				root := flags.workspace
				if root == "" {
					// FindRoot starts at the folder of the path it is given
					if root, err = workspace.FindRoot(ctx, a.fs, filepath.Join(cwd, "config")); err != nil {
						return err
					}
				} else if root, err = filepath.Abs(root); err != nil {
					return errors.Errorf("resolving workspace path: %w", err)
				}
				if cfg, err = a.loadConfig(ctx, flags, root); err != nil {
					return err
				}
			}

			enc := yaml.NewEncoder(a.stdout)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return errors.Errorf("encoding config: %w", err)
			}
			if err := enc.Close(); err != nil {
				return errors.Errorf("encoding config: %w", err)
			}

			for _, src := range cfg.Sources {
				fmt.Fprintf(a.stdout, "# source: %s\n", src)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
