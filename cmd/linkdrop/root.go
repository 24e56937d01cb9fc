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
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/linkdrop/pkg/config"
	"github.com/walteh/linkdrop/pkg/drop"
	"github.com/walteh/linkdrop/pkg/log"
	"github.com/walteh/linkdrop/pkg/resolve"
	"github.com/walteh/linkdrop/pkg/workspace"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 🎯 app carries the process-level dependencies shared by all commands
type app struct {
	fs         afero.Fs
	stdout     io.Writer // link text and machine readable output
	stderr     io.Writer // notifications
	userConfig func() string

	// global flags
	debug   bool
	logFile string

	closer io.Closer
}

func defaultUserConfig() string {
	return config.UserConfigFile()
}

// 🔧 targetFlags are shared by commands that resolve destinations
type targetFlags struct {
	workspace  string
	configFile string
	policy     string
	extensions string
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.workspace, "workspace", "w", "", "workspace root (default: nearest folder with .linkdrop.*, .vscode or .git)")
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "extra config file applied over the workspace configuration")
	cmd.Flags().StringVar(&f.policy, "policy", "", "overwrite behavior: overwrite or name-incrementally")
	cmd.Flags().StringVar(&f.extensions, "extensions", "", "comma separated list of allowed extensions")
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkdrop",
		Short: "Copy dropped files next to a document and link them",
		Long: `linkdrop copies files into a folder computed from glob rules over the
document's workspace-relative path, and produces [[relative/path|name]] links
for the document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.setupLogging(cmd.Context())
			cmd.SetContext(ctx)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write structured logs to a rotated file")

	cmd.AddCommand(
		newDropCommand(a),
		newResolveCommand(a),
		newConfigCommand(a),
		newVersionCommand(a),
	)

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	return cmd
}

// execute runs the command line and releases the log file whether or not the command failed
func (a *app) execute(ctx context.Context, args []string) error {
	cmd := newRootCommand(a)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)

	if a.closer != nil {
		if cerr := a.closer.Close(); cerr != nil && err == nil {
			err = errors.Errorf("closing log file: %w", cerr)
		}
		a.closer = nil
	}
	return err
}

// setupLogging configures zerolog and the console logger and stores both on ctx
func (a *app) setupLogging(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	if f, ok := a.stderr.(*os.File); ok {
		color.NoColor = os.Getenv("NO_COLOR") != "" || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	} else {
		color.NoColor = true
	}

	level := zerolog.InfoLevel
	if a.debug {
		level = zerolog.DebugLevel
	}

	var zlog zerolog.Logger
	switch {
	case a.logFile != "":
		rotated := &lumberjack.Logger{
			Filename:   a.logFile,
			MaxSize:    1,
			MaxBackups: 3,
		}
		a.closer = rotated
		var w io.Writer = rotated
		if a.debug {
			w = zerolog.MultiLevelWriter(rotated, zerolog.ConsoleWriter{Out: a.stderr, NoColor: color.NoColor})
		}
		zlog = zerolog.New(w).Level(level).With().Timestamp().Logger()
	case a.debug:
		zlog = zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, NoColor: color.NoColor}).Level(level).With().Timestamp().Logger()
	default:
		zlog = zerolog.Nop()
	}

	ctx = zlog.WithContext(ctx)
	return log.NewContext(ctx, log.New(a.stderr, zlog))
}

// 📦 session is everything a command needs for one document
type session struct {
	document  string
	workspace string
	config    *config.Config
	settings  drop.Settings
}

// prepare resolves the document, its workspace and the effective configuration
func (a *app) prepare(ctx context.Context, flags *targetFlags, document string) (*session, error) {
	doc, err := filepath.Abs(document)
	if err != nil {
		return nil, errors.Errorf("resolving document path: %w", err)
	}

	explicit := flags.workspace
	if explicit != "" {
		if explicit, err = filepath.Abs(explicit); err != nil {
			return nil, errors.Errorf("resolving workspace path: %w", err)
		}
	}

	root, err := workspace.Root(ctx, a.fs, explicit, doc)
	if err != nil {
		if errors.Is(err, resolve.ErrNoWorkspaceRoot) {
			log.FromContext(ctx).Error(drop.MsgNoWorkspace)
		}
		return nil, err
	}

	cfg, err := a.loadConfig(ctx, flags, root)
	if err != nil {
		return nil, err
	}

	settings, err := cfg.Settings()
	if err != nil {
		return nil, errors.Errorf("building settings: %w", err)
	}

	return &session{document: doc, workspace: root, config: cfg, settings: settings}, nil
}

// loadConfig layers the workspace config, the --config file and flag overrides
func (a *app) loadConfig(ctx context.Context, flags *targetFlags, root string) (*config.Config, error) {
	cfg, err := config.LoadWorkspace(ctx, a.fs, root, a.userConfig())
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	if flags.configFile != "" {
		extra, err := config.Load(ctx, a.fs, flags.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg.Merge(extra)
	}

	override := &config.Config{OverwriteBehavior: flags.policy}
	if flags.extensions != "" {
		override.Extensions = &flags.extensions
	}
	if err := override.Validate(); err != nil {
		return nil, errors.Errorf("invalid flags: %w", err)
	}
	cfg.Merge(override)

	return cfg, nil
}
