package declare

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is a service declaration read from YAML or JSON.
type File struct {
	Name        string            `yaml:"name"`
	APIVersion  string            `yaml:"apiVersion"`
	BaseURL     string            `yaml:"baseUrl"`
	Description string            `yaml:"description"`
	Headers     map[string]string `yaml:"headers"`
	Operations  []OperationDecl   `yaml:"operations"`
}

type OperationDecl struct {
	Name                 string              `yaml:"name"`
	HTTPMethod           string              `yaml:"httpMethod"`
	URI                  string              `yaml:"uri"`
	Summary              string              `yaml:"summary"`
	Notes                string              `yaml:"notes"`
	DocumentationURL     string              `yaml:"documentationUrl"`
	ResponseModel        string              `yaml:"responseModel"`
	Deprecated           *bool               `yaml:"deprecated"`
	Extends              string              `yaml:"extends"`
	Data                 map[string]any      `yaml:"data"`
	ErrorResponses       []ErrorResponseDecl `yaml:"errorResponses"`
	Parameters           []ParamDecl         `yaml:"parameters"`
	AdditionalParameters *ParamDecl          `yaml:"additionalParameters"`
}

type ErrorResponseDecl struct {
	Code   int    `yaml:"code"`
	Reason string `yaml:"reason"`
	Class  string `yaml:"class"`
}

type ParamDecl struct {
	Name        string       `yaml:"name"`
	Type        StringList   `yaml:"type"`
	Location    string       `yaml:"location"`
	Required    *bool        `yaml:"required"`
	Default     any          `yaml:"default"`
	Static      *bool        `yaml:"static"`
	Description string       `yaml:"description"`
	SentAs      string       `yaml:"sentAs"`
	Filters     []FilterDecl `yaml:"filters"`
	Validate    *RuleDecl    `yaml:"validate"`
	Items       *ParamDecl   `yaml:"items"`
	Properties  []ParamDecl  `yaml:"properties"`
}

type RuleDecl struct {
	Pattern   *string `yaml:"pattern"`
	Enum      []any   `yaml:"enum"`
	MinItems  *int    `yaml:"minItems"`
	MaxItems  *int    `yaml:"maxItems"`
	MinLength *int    `yaml:"minLength"`
	MaxLength *int    `yaml:"maxLength"`
	Minimum   *int    `yaml:"minimum"`
	Maximum   *int    `yaml:"maximum"`
	Format    *string `yaml:"format"`
}

// StringList accepts either a scalar or a sequence of scalars.
type StringList []string

func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*s = StringList{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", value.Line)
	}
}

// FilterDecl is either a bare method name or {method, args}.
type FilterDecl struct {
	Method string `yaml:"method"`
	Args   []any  `yaml:"args"`
}

func (f *FilterDecl) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		f.Method = value.Value
		return nil
	}
	type plain FilterDecl
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*f = FilterDecl(p)
	return nil
}
