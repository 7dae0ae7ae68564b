package profile

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Validate checks every schema rule and reports all violations at once.
// Out-of-range values are rejected, never clamped.
func Validate(p *Profile) error {
	var errs []FieldError

	errs = append(errs, validateArchitecture(&p.Architecture)...)
	errs = append(errs, validateCQRS(&p.CQRS)...)
	errs = append(errs, validateCodeQuality(&p.CodeQuality)...)
	errs = append(errs, validateNaming(&p.Naming)...)
	errs = append(errs, validateBlocks(p)...)

	if len(errs) > 0 {
		return &ValidationError{ProfileID: p.ID, Fields: errs}
	}
	return nil
}

func validateArchitecture(a *Architecture) []FieldError {
	var errs []FieldError

	if !a.Type.IsValid() {
		errs = append(errs, FieldError{
			Field:   "architecture.type",
			Message: "must be one of " + joinValues(ValidArchitectureTypes()),
			Value:   a.Type,
		})
	}

	declared := make(map[string]bool, len(a.Layers))
	for i, l := range a.Layers {
		field := fmt.Sprintf("architecture.layers[%d].name", i)
		if strings.TrimSpace(l.Name) == "" {
			errs = append(errs, FieldError{Field: field, Message: "must not be empty"})
			continue
		}
		if declared[l.Name] {
			errs = append(errs, FieldError{Field: field, Message: "duplicate layer name", Value: l.Name})
		}
		declared[l.Name] = true
	}

	for i, l := range a.Layers {
		for _, dep := range l.AllowedDependencies {
			if !declared[dep] {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("architecture.layers[%d].allowedDependencies", i),
					Message: "references undeclared layer",
					Value:   dep,
				})
			}
		}
	}

	return errs
}

func validateCQRS(c *CQRS) []FieldError {
	if c.Separation == "" || c.Separation.IsValid() {
		return nil
	}
	return []FieldError{{
		Field:   "cqrs.separation",
		Message: "must be one of logical, physical",
		Value:   c.Separation,
	}}
}

func validateCodeQuality(q *CodeQuality) []FieldError {
	var errs []FieldError

	positive := []struct {
		field string
		value int
	}{
		{"codeQuality.maxMethodLines", q.MaxMethodLines},
		{"codeQuality.maxClassLines", q.MaxClassLines},
		{"codeQuality.maxFileLines", q.MaxFileLines},
		{"codeQuality.maxMethodParameters", q.MaxMethodParameters},
		{"codeQuality.maxCyclomaticComplexity", q.MaxCyclomaticComplexity},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errs = append(errs, FieldError{Field: p.field, Message: "must be positive", Value: p.value})
		}
	}

	if q.MinimumTestCoverage < 0 || q.MinimumTestCoverage > 100 {
		errs = append(errs, FieldError{
			Field:   "codeQuality.minimumTestCoverage",
			Message: "must be between 0 and 100",
			Value:   q.MinimumTestCoverage,
		})
	}

	return errs
}

func validateNaming(n *Naming) []FieldError {
	var errs []FieldError
	for _, kind := range sortedKeys(n.Conventions) {
		if style := n.Conventions[kind]; !style.IsValid() {
			errs = append(errs, FieldError{
				Field:   "naming." + kind,
				Message: "unknown case style",
				Value:   style,
			})
		}
	}
	for _, scope := range sortedKeys(n.Overrides) {
		styles := n.Overrides[scope]
		for _, kind := range sortedKeys(styles) {
			if style := styles[kind]; !style.IsValid() {
				errs = append(errs, FieldError{
					Field:   "naming.overrides." + scope + "." + kind,
					Message: "unknown case style",
					Value:   style,
				})
			}
		}
	}
	return errs
}

func validateBlocks(p *Profile) []FieldError {
	var errs []FieldError

	switch p.Testing.Structure {
	case "", ArrangeActAssert, GivenWhenThen:
	default:
		errs = append(errs, FieldError{
			Field:   "testing.structure",
			Message: "must be one of arrange-act-assert, given-when-then",
			Value:   p.Testing.Structure,
		})
	}

	switch p.Observability.Logging.Format {
	case "", LogFormatJSON, LogFormatText:
	default:
		errs = append(errs, FieldError{
			Field:   "observability.logging.format",
			Message: "must be one of json, text",
			Value:   p.Observability.Logging.Format,
		})
	}

	if p.HTTPClients.TimeoutMs < 0 {
		errs = append(errs, FieldError{
			Field:   "httpClients.timeoutMs",
			Message: "must not be negative",
			Value:   p.HTTPClients.TimeoutMs,
		})
	}
	if p.HTTPClients.Retries < 0 || p.HTTPClients.Retries > 10 {
		errs = append(errs, FieldError{
			Field:   "httpClients.retries",
			Message: "must be between 0 and 10",
			Value:   p.HTTPClients.Retries,
		})
	}

	switch p.ErrorHandling.Strategy {
	case "", StrategyExceptions, StrategyResultType, StrategyErrorCodes:
	default:
		errs = append(errs, FieldError{
			Field:   "errorHandling.strategy",
			Message: "must be one of exceptions, result-type, error-codes",
			Value:   p.ErrorHandling.Strategy,
		})
	}

	return errs
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
