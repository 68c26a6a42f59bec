// Package labels holds the human label vocabulary and its mapping from the
// coarser model classes.
package labels

import (
	"fmt"
	"strings"

	"routelabel/internal/config"
	"routelabel/internal/textutil"
)

// Label is one output class a reviewer can file a frame under.
type Label struct {
	Name string
	Key  string
}

// Set resolves reviewer tokens and model classes to labels. It is immutable
// after construction.
type Set struct {
	labels       []Label
	byToken      map[string]string
	modelClasses []string
	suggestions  map[string]string
}

// New builds a Set from the [labels] configuration section.
func New(cfg config.Labels) (*Set, error) {
	set := &Set{
		byToken:     make(map[string]string, len(cfg.Classes)*2),
		suggestions: make(map[string]string, len(cfg.Suggestions)),
	}
	for _, class := range cfg.Classes {
		name := textutil.Canonical(class.Name)
		key := textutil.Canonical(class.Key)
		if name == "" {
			continue
		}
		if _, dup := set.byToken[name]; dup {
			return nil, fmt.Errorf("label %q defined twice", name)
		}
		set.byToken[name] = name
		if key != "" {
			if existing, dup := set.byToken[key]; dup && existing != name {
				return nil, fmt.Errorf("label key %q used by %s and %s", key, existing, name)
			}
			set.byToken[key] = name
		}
		set.labels = append(set.labels, Label{Name: name, Key: key})
	}
	if len(set.labels) == 0 {
		return nil, fmt.Errorf("no labels configured")
	}
	for _, class := range cfg.ModelClasses {
		class = textutil.Canonical(class)
		label := textutil.Canonical(cfg.Suggestions[class])
		if _, ok := set.byToken[label]; !ok || set.byToken[label] != label {
			return nil, fmt.Errorf("model class %q suggests unknown label %q", class, label)
		}
		set.modelClasses = append(set.modelClasses, class)
		set.suggestions[class] = label
	}
	if len(set.modelClasses) == 0 {
		return nil, fmt.Errorf("no model classes configured")
	}
	return set, nil
}

// Lookup resolves a shortcut key or full label name, case-insensitively.
func (s *Set) Lookup(token string) (string, bool) {
	name, ok := s.byToken[textutil.Canonical(token)]
	return name, ok
}

// Labels returns the labels in configuration order.
func (s *Set) Labels() []Label {
	return append([]Label(nil), s.labels...)
}

// Names returns the label names in configuration order.
func (s *Set) Names() []string {
	names := make([]string, len(s.labels))
	for i, l := range s.labels {
		names[i] = l.Name
	}
	return names
}

// ModelClasses returns the classifier output classes in vector order.
func (s *Set) ModelClasses() []string {
	return append([]string(nil), s.modelClasses...)
}

// Suggest maps a model class index to its class name and suggested label.
func (s *Set) Suggest(classIndex int) (modelClass, label string, ok bool) {
	if classIndex < 0 || classIndex >= len(s.modelClasses) {
		return "", "", false
	}
	modelClass = s.modelClasses[classIndex]
	return modelClass, s.suggestions[modelClass], true
}

// Help renders the banner of accepted reviewer inputs.
func (s *Set) Help() string {
	var b strings.Builder
	b.WriteString("Valid inputs:\n")
	for _, l := range s.labels {
		if l.Key != "" {
			fmt.Fprintf(&b, "  %-3s or %-8s file the frame as %s\n", l.Key, l.Name, l.Name)
		} else {
			fmt.Fprintf(&b, "  %-15s file the frame as %s\n", l.Name, l.Name)
		}
	}
	b.WriteString("  SKIP n          show one frame every n seconds from now on\n")
	b.WriteString("  SKIP n NOW      jump n seconds ahead without filing this frame\n")
	b.WriteString("  Q or QUIT       stop after this frame\n")
	b.WriteString("  ? or HELP       show this message\n")
	return b.String()
}
