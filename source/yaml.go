package source

import (
	"fmt"
	"io"
	"sort"

	"github.com/ezachrisen/cohort"
	"gopkg.in/yaml.v3"
)

// ReadEntitiesYAML reads a YAML list of entities:
//
//	- eid: 1
//	  first_name: John
//	  age: 22
//	  zip_code: "91003"
//	  emails: [jlee@yahoo.com, jl123@gmail.com]
func ReadEntitiesYAML(r io.Reader) ([]*cohort.Entity, error) {
	var out []*cohort.Entity
	if err := yaml.NewDecoder(r).Decode(&out); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding entities: %w", err)
	}
	for i, e := range out {
		if e == nil {
			return nil, fmt.Errorf("entity %d is empty", i+1)
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadCohortsYAML reads a YAML list of rules, each a mapping of field name
// to specification. Interval specifications starting with [ must be quoted.
//
//	- cohort: "2"
//	  age: (15,45]
//	  country: CH
//	  emails: hotmail.com
func ReadCohortsYAML(r io.Reader) ([]*cohort.Rule, error) {
	var specs []map[string]string
	if err := yaml.NewDecoder(r).Decode(&specs); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding cohorts: %w", err)
	}
	out := make([]*cohort.Rule, 0, len(specs))
	for i, s := range specs {
		rule, err := cohort.NewRule(s)
		if err != nil {
			return nil, fmt.Errorf("cohort %d: %w", i+1, err)
		}
		out = append(out, rule)
	}
	return out, nil
}

// WriteCohortsYAML writes the rules as a YAML list, with the cohort key
// first in each mapping.
func WriteCohortsYAML(w io.Writer, rules []*cohort.Rule) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range rules {
		m := &yaml.Node{Kind: yaml.MappingNode}
		m.Content = append(m.Content, str(cohort.IDKey), str(r.ID))

		keys := make([]string, 0, len(r.Spec))
		for k := range r.Spec {
			if k != cohort.IDKey {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Content = append(m.Content, str(k), str(r.Spec[k]))
		}
		doc.Content = append(doc.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding cohorts: %w", err)
	}
	return enc.Close()
}

// str returns a string scalar node. The encoder quotes the value where
// needed, so "1" and "[10,50]" stay strings.
func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
