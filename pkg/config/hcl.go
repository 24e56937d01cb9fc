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

package config

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/linkdrop/pkg/resolve"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
//
//	rule "docs/**" {
//	  template = "${documentBaseName}_files/"
//	}
//	overwrite_behavior = "overwrite"
//	extensions         = "pdf, png"
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return hasExt(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "linkdrop.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// ${documentBaseName} evaluates to itself so templates survive HCL interpolation
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"documentBaseName": cty.StringVal(resolve.DocumentBaseNamePlaceholder),
		},
	}

	type hclRule struct {
		Pattern  string `hcl:"pattern,label"`
		Template string `hcl:"template"`
	}
	type hclConfig struct {
		Rules             []hclRule `hcl:"rule,block"`
		OverwriteBehavior *string   `hcl:"overwrite_behavior,optional"`
		Extensions        *string   `hcl:"extensions,optional"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Extensions: hclCfg.Extensions,
	}
	if hclCfg.OverwriteBehavior != nil {
		cfg.OverwriteBehavior = *hclCfg.OverwriteBehavior
	}
	if len(hclCfg.Rules) > 0 {
		cfg.Destination = Rules{}
		for _, r := range hclCfg.Rules {
			cfg.Destination = append(cfg.Destination, resolve.Rule{Pattern: r.Pattern, Template: r.Template})
		}
	}

	return cfg, nil
}
