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
	"bytes"
	"encoding/json"

	"github.com/walteh/linkdrop/pkg/resolve"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 📏 Rules are destination rules in the order they were written.
// They decode from a pattern->template mapping or from a list of {pattern, template}.
type Rules []resolve.Rule

// 📝 UnmarshalYAML keeps mapping key order
func (r *Rules) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		rules := Rules{}
		for i := 0; i+1 < len(node.Content); i += 2 {
			var rule resolve.Rule
			if err := node.Content[i].Decode(&rule.Pattern); err != nil {
				return errors.Errorf("destination pattern at line %d: %w", node.Content[i].Line, err)
			}
			if err := node.Content[i+1].Decode(&rule.Template); err != nil {
				return errors.Errorf("destination template for %q: %w", rule.Pattern, err)
			}
			rules = append(rules, rule)
		}
		*r = rules
	case yaml.SequenceNode:
		var list []resolve.Rule
		if err := node.Decode(&list); err != nil {
			return errors.Errorf("destination list: %w", err)
		}
		*r = append(Rules{}, list...)
	default:
		return errors.Errorf("destination at line %d must be a mapping or a list", node.Line)
	}
	return nil
}

// 📝 MarshalYAML writes rules back as an ordered mapping
func (r Rules) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, rule := range r {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: rule.Pattern},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: rule.Template},
		)
	}
	return node, nil
}

// 📝 UnmarshalJSON keeps object key order
func (r *Rules) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*r = nil
		return nil
	case bytes.HasPrefix(trimmed, []byte("[")):
		var list []resolve.Rule
		decoder := json.NewDecoder(bytes.NewReader(trimmed))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&list); err != nil {
			return errors.Errorf("destination list: %w", err)
		}
		*r = append(Rules{}, list...)
		return nil
	case !bytes.HasPrefix(trimmed, []byte("{")):
		return errors.Errorf("destination must be an object or a list")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := decoder.Token(); err != nil {
		return errors.Errorf("reading destination: %w", err)
	}

	rules := Rules{}
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return errors.Errorf("reading destination pattern: %w", err)
		}
		pattern, ok := tok.(string)
		if !ok {
			return errors.Errorf("destination pattern %v is not a string", tok)
		}
		var template string
		if err := decoder.Decode(&template); err != nil {
			return errors.Errorf("destination template for %q: %w", pattern, err)
		}
		rules = append(rules, resolve.Rule{Pattern: pattern, Template: template})
	}
	*r = rules
	return nil
}
