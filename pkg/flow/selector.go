package flow

import (
	"fmt"
	"strings"
)

// Selector describes how to locate an element. Exactly one strategy field is set.
// Pure data structure - the executor turns it into a locator.
type Selector struct {
	CSS             string `yaml:"css"`
	XPath           string `yaml:"xpath"`
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	LinkText        string `yaml:"linkText"`
	PartialLinkText string `yaml:"partialLinkText"`
	TagName         string `yaml:"tagName"`
	ClassName       string `yaml:"className"`

	// Index picks one element from a multi-element match (0-based).
	Index int `yaml:"index"`

	// ChildOf scopes the lookup to a match of another selector, picked by its own Index.
	ChildOf *Selector `yaml:"childOf"`
}

// Strategy names used by Strategy.
const (
	StrategyCSS             = "css"
	StrategyXPath           = "xpath"
	StrategyID              = "id"
	StrategyName            = "name"
	StrategyLinkText        = "linkText"
	StrategyPartialLinkText = "partialLinkText"
	StrategyTagName         = "tagName"
	StrategyClassName       = "className"
)

// Strategy returns the single strategy set on s and its value.
func (s *Selector) Strategy() (string, string, error) {
	var set []string
	var by, value string
	for _, f := range []struct{ name, value string }{
		{StrategyCSS, s.CSS},
		{StrategyXPath, s.XPath},
		{StrategyID, s.ID},
		{StrategyName, s.Name},
		{StrategyLinkText, s.LinkText},
		{StrategyPartialLinkText, s.PartialLinkText},
		{StrategyTagName, s.TagName},
		{StrategyClassName, s.ClassName},
	} {
		if f.value != "" {
			set = append(set, f.name)
			by, value = f.name, f.value
		}
	}
	switch len(set) {
	case 0:
		return "", "", fmt.Errorf("selector needs one of css, xpath, id, name, linkText, partialLinkText, tagName, className")
	case 1:
		return by, value, nil
	default:
		return "", "", fmt.Errorf("selector sets more than one strategy: %s", strings.Join(set, ", "))
	}
}

// Validate checks s and every ChildOf ancestor.
func (s *Selector) Validate() error {
	if _, _, err := s.Strategy(); err != nil {
		return err
	}
	if s.Index < 0 {
		return fmt.Errorf("index must not be negative: %d", s.Index)
	}
	if s.ChildOf != nil {
		if err := s.ChildOf.Validate(); err != nil {
			return fmt.Errorf("childOf: %w", err)
		}
	}
	return nil
}

// Describe returns a short human-readable form, e.g. `css="#login" [1] in id="form"`.
func (s *Selector) Describe() string {
	by, value, err := s.Strategy()
	if err != nil {
		return "<invalid selector>"
	}
	desc := fmt.Sprintf("%s=%q", by, value)
	if s.Index > 0 {
		desc += fmt.Sprintf(" [%d]", s.Index)
	}
	if s.ChildOf != nil {
		desc += " in " + s.ChildOf.Describe()
	}
	return desc
}
