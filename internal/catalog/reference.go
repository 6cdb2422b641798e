package catalog

import (
	"regexp"
)

var referencePattern = regexp.MustCompile(`^(.*?)\[(.*?)\]$`)

// Reference names a command and, for folder commands, optionally one file in it.
// It is flattened to "name" or "name[file]" only where it is stored or sent.
type Reference struct {
	Command string
	File    string
}

// ParseReference parses "name" or "name[file]".
func ParseReference(s string) Reference {
	if m := referencePattern.FindStringSubmatch(s); m != nil {
		return Reference{Command: m[1], File: m[2]}
	}
	return Reference{Command: s}
}

// HasFile reports whether the reference names a specific file.
func (r Reference) HasFile() bool {
	return r.File != ""
}

func (r Reference) String() string {
	if r.HasFile() {
		return r.Command + "[" + r.File + "]"
	}
	return r.Command
}
