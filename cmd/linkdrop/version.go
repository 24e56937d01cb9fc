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
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// buildVersion is what `linkdrop version` reports
type buildVersion struct {
	Version  string
	Revision string
	Modified bool
}

// readBuildVersion reads the module version and vcs revision embedded by the go tool
func readBuildVersion() buildVersion {
	v := buildVersion{Version: "dev"}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return v
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		v.Version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			v.Revision = setting.Value
		case "vcs.modified":
			v.Modified = setting.Value == "true"
		}
	}
	return v
}

// String renders "linkdrop <version> (<rev>[, modified]) <go> <os>/<arch>"
func (v buildVersion) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "linkdrop %s", v.Version)
	if v.Revision != "" {
		rev := v.Revision
		if len(rev) > 12 {
			rev = rev[:12]
		}
		if v.Modified {
			rev += ", modified"
		}
		fmt.Fprintf(&sb, " (%s)", rev)
	}
	fmt.Fprintf(&sb, " %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return sb.String()
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(a.stdout, readBuildVersion())
			return err
		},
	}
}
