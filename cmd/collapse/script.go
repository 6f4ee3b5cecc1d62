package main

import (
	"errors"
	"io"
	"time"

	"github.com/fwojciec/collapse"
	"gopkg.in/yaml.v3"
)

// Script is a recorded interaction session.
//
//	location: https://example.com/docs/page
//	hash: "#details"
//	steps:
//	  - layout: true
//	  - hover: "#details"
//	  - wait: 750ms
//	  - click: "#details p"
type Script struct {
	// Location is the page URL. It scopes prefetch eligibility.
	Location string `yaml:"location"`

	// Hash is the location hash the page is opened with.
	Hash string `yaml:"hash"`

	Steps []Step `yaml:"steps"`
}

// Step is one input event. Exactly one action field must be set. Selectors
// name the first matching element; hover, leave and toggle accept a
// control or any element inside its block.
type Step struct {
	Hash       *string       `yaml:"hash"`
	Layout     bool          `yaml:"layout"`
	Select     string        `yaml:"select"`
	Hover      string        `yaml:"hover"`
	Leave      string        `yaml:"leave"`
	LeaveBlock string        `yaml:"leaveBlock"`
	Click      string        `yaml:"click"`
	Toggle     string        `yaml:"toggle"`
	Wait       time.Duration `yaml:"wait"`
	Offscreen  string        `yaml:"offscreen"`
	Onscreen   string        `yaml:"onscreen"`
	Prefetch   string        `yaml:"prefetch"`
	Unhover    string        `yaml:"unhover"`

	// Checked is the state a toggle step sets. Without it the control is
	// flipped.
	Checked *bool `yaml:"checked"`
}

// Action returns the name of the step's action.
func (s *Step) Action() string {
	actions := s.actions()
	if len(actions) != 1 {
		return ""
	}
	return actions[0]
}

func (s *Step) actions() []string {
	var out []string
	add := func(set bool, name string) {
		if set {
			out = append(out, name)
		}
	}
	add(s.Hash != nil, "hash")
	add(s.Layout, "layout")
	add(s.Select != "", "select")
	add(s.Hover != "", "hover")
	add(s.Leave != "", "leave")
	add(s.LeaveBlock != "", "leaveBlock")
	add(s.Click != "", "click")
	add(s.Toggle != "", "toggle")
	add(s.Wait != 0, "wait")
	add(s.Offscreen != "", "offscreen")
	add(s.Onscreen != "", "onscreen")
	add(s.Prefetch != "", "prefetch")
	add(s.Unhover != "", "unhover")
	return out
}

// ParseScript decodes and validates a YAML script.
func ParseScript(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, collapse.Errorf(collapse.EINVALID, "invalid script: %v", err)
	}

	for i := range s.Steps {
		step := &s.Steps[i]
		switch n := len(step.actions()); {
		case n == 0:
			return nil, collapse.Errorf(collapse.EINVALID, "step %d: no action", i+1)
		case n > 1:
			return nil, collapse.Errorf(collapse.EINVALID, "step %d: more than one action: %v", i+1, step.actions())
		}
		if step.Wait < 0 {
			return nil, collapse.Errorf(collapse.EINVALID, "step %d: negative wait", i+1)
		}
		if step.Checked != nil && step.Toggle == "" {
			return nil, collapse.Errorf(collapse.EINVALID, "step %d: checked is only valid with toggle", i+1)
		}
	}
	return &s, nil
}
