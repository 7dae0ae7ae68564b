// Package profile loads, validates and caches coding-standard profiles.
//
// A profile is a YAML file under profiles/templates or profiles/custom whose
// filename stem is its id. Every section is optional; missing keys keep the
// values from NewDefaultProfile.
package profile

// ArchitectureType is the architectural style a profile enforces.
type ArchitectureType string

const (
	ArchitectureHexagonal ArchitectureType = "hexagonal"
	ArchitectureClean     ArchitectureType = "clean"
	ArchitectureLayered   ArchitectureType = "layered"
	ArchitectureOnion     ArchitectureType = "onion"
)

// ValidArchitectureTypes returns all architecture types in display order.
func ValidArchitectureTypes() []ArchitectureType {
	return []ArchitectureType{ArchitectureHexagonal, ArchitectureClean, ArchitectureLayered, ArchitectureOnion}
}

// IsValid reports whether t is a known architecture type.
func (t ArchitectureType) IsValid() bool {
	for _, v := range ValidArchitectureTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// Separation is how strictly CQRS commands and queries are split.
type Separation string

const (
	SeparationLogical  Separation = "logical"
	SeparationPhysical Separation = "physical"
)

// IsValid reports whether s is a known separation mode.
func (s Separation) IsValid() bool {
	return s == SeparationLogical || s == SeparationPhysical
}

// CaseStyle is a naming convention.
type CaseStyle string

const (
	PascalCase         CaseStyle = "PascalCase"
	CamelCase          CaseStyle = "camelCase"
	SnakeCase          CaseStyle = "snake_case"
	ScreamingSnakeCase CaseStyle = "SCREAMING_SNAKE_CASE"
	KebabCase          CaseStyle = "kebab-case"
	LowerCase          CaseStyle = "lowercase"
	LowerDotSeparated  CaseStyle = "lowercase.dot.separated"
)

// ValidCaseStyles returns every supported naming convention.
func ValidCaseStyles() []CaseStyle {
	return []CaseStyle{PascalCase, CamelCase, SnakeCase, ScreamingSnakeCase, KebabCase, LowerCase, LowerDotSeparated}
}

// IsValid reports whether c is a known case style.
func (c CaseStyle) IsValid() bool {
	for _, v := range ValidCaseStyles() {
		if c == v {
			return true
		}
	}
	return false
}

// TestStructure is the expected layout of a test body.
type TestStructure string

const (
	ArrangeActAssert TestStructure = "arrange-act-assert"
	GivenWhenThen    TestStructure = "given-when-then"
)

// LogFormat is the structured logging output format.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// ErrorStrategy is how the codebase signals failures.
type ErrorStrategy string

const (
	StrategyExceptions ErrorStrategy = "exceptions"
	StrategyResultType ErrorStrategy = "result-type"
	StrategyErrorCodes ErrorStrategy = "error-codes"
)

// Source tells where a profile file was found.
type Source string

const (
	SourceTemplate Source = "template"
	SourceCustom   Source = "custom"
)

// Profile is a named bundle of architecture, quality and naming rules.
type Profile struct {
	// ID is the filename stem; it is not read from the YAML body.
	ID            string        `yaml:"-"`
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description"`
	Architecture  Architecture  `yaml:"architecture"`
	DDD           DDD           `yaml:"ddd"`
	CQRS          CQRS          `yaml:"cqrs"`
	CodeQuality   CodeQuality   `yaml:"codeQuality"`
	Naming        Naming        `yaml:"naming"`
	Testing       Testing       `yaml:"testing"`
	Observability Observability `yaml:"observability"`
	HTTPClients   HTTPClients   `yaml:"httpClients"`
	Security      Security      `yaml:"security"`
	ErrorHandling ErrorHandling `yaml:"errorHandling"`
	Database      Database      `yaml:"database"`
}

type Architecture struct {
	Type                     ArchitectureType `yaml:"type"`
	EnforceLayerDependencies bool             `yaml:"enforceLayerDependencies"`
	Layers                   []Layer          `yaml:"layers"`
}

type Layer struct {
	Name                string   `yaml:"name"`
	Description         string   `yaml:"description,omitempty"`
	AllowedDependencies []string `yaml:"allowedDependencies"`
	Packages            []string `yaml:"packages,omitempty"`
}

type DDD struct {
	Enabled                    bool        `yaml:"enabled"`
	UbiquitousLanguageEnforced bool        `yaml:"ubiquitousLanguageEnforced"`
	Patterns                   DDDPatterns `yaml:"patterns"`
}

type DDDPatterns struct {
	Aggregates     bool `yaml:"aggregates"`
	ValueObjects   bool `yaml:"valueObjects"`
	DomainEvents   bool `yaml:"domainEvents"`
	Repositories   bool `yaml:"repositories"`
	Factories      bool `yaml:"factories"`
	DomainServices bool `yaml:"domainServices"`
}

// Enabled returns the names of the patterns that are switched on.
func (p DDDPatterns) Enabled() []string {
	var out []string
	for _, e := range []struct {
		name string
		on   bool
	}{
		{"aggregates", p.Aggregates},
		{"value objects", p.ValueObjects},
		{"domain events", p.DomainEvents},
		{"repositories", p.Repositories},
		{"factories", p.Factories},
		{"domain services", p.DomainServices},
	} {
		if e.on {
			out = append(out, e.name)
		}
	}
	return out
}

type CQRS struct {
	Enabled    bool         `yaml:"enabled"`
	Separation Separation   `yaml:"separation"`
	Patterns   CQRSPatterns `yaml:"patterns"`
}

type CQRSPatterns struct {
	Command string `yaml:"command"`
	Query   string `yaml:"query"`
}

type CodeQuality struct {
	MaxMethodLines          int      `yaml:"maxMethodLines"`
	MaxClassLines           int      `yaml:"maxClassLines"`
	MaxFileLines            int      `yaml:"maxFileLines"`
	MaxMethodParameters     int      `yaml:"maxMethodParameters"`
	MaxCyclomaticComplexity int      `yaml:"maxCyclomaticComplexity"`
	MinimumTestCoverage     int      `yaml:"minimumTestCoverage"`
	RequireDocumentation    bool     `yaml:"requireDocumentation"`
	RequireTests            bool     `yaml:"requireTests"`
	Principles              []string `yaml:"principles"`
}

// Naming maps element kinds (class, method, constant, ...) to case styles.
// Overrides holds per-language or per-category exceptions.
type Naming struct {
	Conventions map[string]CaseStyle            `yaml:",inline"`
	Overrides   map[string]map[string]CaseStyle `yaml:"overrides,omitempty"`
}

type Testing struct {
	Framework               string        `yaml:"framework,omitempty"`
	Mocking                 string        `yaml:"mocking,omitempty"`
	Assertions              string        `yaml:"assertions,omitempty"`
	NamingPattern           string        `yaml:"namingPattern,omitempty"`
	Structure               TestStructure `yaml:"structure"`
	RequireIntegrationTests bool          `yaml:"requireIntegrationTests"`
}

type Observability struct {
	Enabled bool          `yaml:"enabled"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics Toggle        `yaml:"metrics"`
	Tracing Toggle        `yaml:"tracing"`
}

type LoggingConfig struct {
	Structured bool      `yaml:"structured"`
	Format     LogFormat `yaml:"format"`
}

// Toggle is an on/off feature with an optional provider name.
type Toggle struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider,omitempty"`
}

type HTTPClients struct {
	Preferred      string `yaml:"preferred,omitempty"`
	TimeoutMs      int    `yaml:"timeoutMs"`
	Retries        int    `yaml:"retries"`
	CircuitBreaker bool   `yaml:"circuitBreaker"`
}

type Security struct {
	InputValidation   bool   `yaml:"inputValidation"`
	Authentication    string `yaml:"authentication,omitempty"`
	SecretsManagement string `yaml:"secretsManagement,omitempty"`
	OWASPTop10        bool   `yaml:"owaspTop10"`
}

type ErrorHandling struct {
	Strategy         ErrorStrategy `yaml:"strategy"`
	CustomExceptions bool          `yaml:"customExceptions"`
	GlobalHandler    bool          `yaml:"globalHandler"`
	ProblemDetails   bool          `yaml:"problemDetails"`
}

type Database struct {
	ORM                      string `yaml:"orm,omitempty"`
	Migrations               string `yaml:"migrations,omitempty"`
	TransactionBoundary      string `yaml:"transactionBoundary,omitempty"`
	RequireIndexesForQueries bool   `yaml:"requireIndexesForQueries"`
}

// Summary is the list view of a profile.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      Source `json:"source"`
}
