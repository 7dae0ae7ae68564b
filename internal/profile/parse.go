package profile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes YAML onto a default profile and validates the result.
// Missing keys keep their defaults, unknown keys are ignored, lists in
// the document replace default lists and maps merge key by key.
//
// Values of the wrong type are reported as field violations together
// with every schema violation in the rest of the document.
func Parse(id string, data []byte) (*Profile, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{ProfileID: id, Err: err}
	}

	p := NewDefaultProfile()
	var typeFields []FieldError
	if len(root.Content) > 0 {
		if err := root.Decode(p); err != nil {
			var typeErr *yaml.TypeError
			if !errors.As(err, &typeErr) {
				return nil, &ParseError{ProfileID: id, Err: err}
			}
			typeFields = typeErrorFields(&root, typeErr)
		}
	}

	p.ID = id
	if p.Name == "" {
		p.Name = id
	}

	err := Validate(p)
	if len(typeFields) == 0 {
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	fields := typeFields
	var ve *ValidationError
	if errors.As(err, &ve) {
		fields = append(fields, ve.Fields...)
	}
	return nil, &ValidationError{ProfileID: id, Fields: fields}
}

// Marshal renders a profile back to YAML.
func Marshal(p *Profile) ([]byte, error) {
	return yaml.Marshal(p)
}

// typeErrorFields maps each yaml type error to the dotted path of the
// value it reports.
func typeErrorFields(root *yaml.Node, typeErr *yaml.TypeError) []FieldError {
	fields := make([]FieldError, 0, len(typeErr.Errors))
	for _, msg := range typeErr.Errors {
		line, text := splitLine(msg)
		field := "yaml"
		if line > 0 {
			kind := reportedKind(text)
			path, ok := fieldAt(root, "", func(n *yaml.Node) bool { return n.Line == line && n.Kind == kind })
			if !ok {
				path, ok = fieldAt(root, "", func(n *yaml.Node) bool { return n.Line == line })
			}
			if ok {
				field = path
			} else {
				text = fmt.Sprintf("line %d: %s", line, text)
			}
		}
		fields = append(fields, FieldError{Field: field, Message: text})
	}
	return fields
}

// reportedKind returns the node kind a "cannot unmarshal !!tag" message
// is about.
func reportedKind(msg string) yaml.Kind {
	switch {
	case strings.Contains(msg, "!!map"):
		return yaml.MappingNode
	case strings.Contains(msg, "!!seq"):
		return yaml.SequenceNode
	default:
		return yaml.ScalarNode
	}
}

// fieldAt returns the path of the deepest value matching match.
func fieldAt(n *yaml.Node, path string, match func(*yaml.Node) bool) (string, bool) {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			if p, ok := fieldAt(c, path, match); ok {
				return p, true
			}
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			p := k.Value
			if path != "" {
				p = path + "." + k.Value
			}
			if sub, ok := fieldAt(v, p, match); ok {
				return sub, true
			}
			if match(v) {
				return p, true
			}
		}
	case yaml.SequenceNode:
		for i, c := range n.Content {
			p := fmt.Sprintf("%s[%d]", path, i)
			if sub, ok := fieldAt(c, p, match); ok {
				return sub, true
			}
			if match(c) {
				return p, true
			}
		}
	}
	return "", false
}

// splitLine separates the "line N: " prefix yaml puts on its messages.
// It returns 0 and the message unchanged when there is none.
func splitLine(msg string) (int, string) {
	rest := strings.TrimPrefix(msg, "yaml: ")
	num, text, ok := strings.Cut(strings.TrimPrefix(rest, "line "), ": ")
	if !ok || !strings.HasPrefix(rest, "line ") {
		return 0, rest
	}
	line, err := strconv.Atoi(num)
	if err != nil {
		return 0, rest
	}
	return line, text
}
