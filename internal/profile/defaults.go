package profile

// Default values applied when a profile omits a key.
const (
	DefaultArchitecture            = ArchitectureHexagonal
	DefaultMaxMethodLines          = 20
	DefaultMaxClassLines           = 200
	DefaultMaxFileLines            = 400
	DefaultMaxMethodParameters     = 4
	DefaultMaxCyclomaticComplexity = 10
	DefaultMinimumTestCoverage     = 80
	DefaultHTTPTimeoutMs           = 5000
	DefaultHTTPRetries             = 3
	DefaultCommandPattern          = "{Action}{Entity}Command"
	DefaultQueryPattern            = "{Action}{Entity}Query"
	DefaultMigrationNaming         = "V{n}__{description}"
)

// NewDefaultProfile returns a profile with every default filled in. Each
// call returns a fresh value; callers may decode YAML on top of it.
func NewDefaultProfile() *Profile {
	return &Profile{
		Architecture: Architecture{
			Type:                     DefaultArchitecture,
			EnforceLayerDependencies: true,
			Layers: []Layer{
				{Name: "domain", Description: "Business entities and rules, no framework dependencies", AllowedDependencies: []string{}},
				{Name: "application", Description: "Use cases orchestrating the domain", AllowedDependencies: []string{"domain"}},
				{Name: "infrastructure", Description: "Adapters for persistence, messaging and HTTP", AllowedDependencies: []string{"domain", "application"}},
			},
		},
		DDD: DDD{
			Enabled:                    true,
			UbiquitousLanguageEnforced: true,
			Patterns: DDDPatterns{
				Aggregates:     true,
				ValueObjects:   true,
				DomainEvents:   true,
				Repositories:   true,
				Factories:      true,
				DomainServices: true,
			},
		},
		CQRS: CQRS{
			Enabled:    false,
			Separation: SeparationLogical,
			Patterns: CQRSPatterns{
				Command: DefaultCommandPattern,
				Query:   DefaultQueryPattern,
			},
		},
		CodeQuality: CodeQuality{
			MaxMethodLines:          DefaultMaxMethodLines,
			MaxClassLines:           DefaultMaxClassLines,
			MaxFileLines:            DefaultMaxFileLines,
			MaxMethodParameters:     DefaultMaxMethodParameters,
			MaxCyclomaticComplexity: DefaultMaxCyclomaticComplexity,
			MinimumTestCoverage:     DefaultMinimumTestCoverage,
			RequireDocumentation:    true,
			RequireTests:            true,
			Principles:              []string{"SOLID", "DRY", "KISS", "YAGNI"},
		},
		Naming: Naming{
			Conventions: map[string]CaseStyle{
				"class":     PascalCase,
				"interface": PascalCase,
				"enum":      PascalCase,
				"method":    CamelCase,
				"variable":  CamelCase,
				"constant":  ScreamingSnakeCase,
				"package":   LowerCase,
			},
		},
		Testing: Testing{
			Structure: ArrangeActAssert,
		},
		Observability: Observability{
			Enabled: true,
			Logging: LoggingConfig{Structured: true, Format: LogFormatJSON},
		},
		HTTPClients: HTTPClients{
			TimeoutMs: DefaultHTTPTimeoutMs,
			Retries:   DefaultHTTPRetries,
		},
		Security: Security{
			InputValidation: true,
			OWASPTop10:      true,
		},
		ErrorHandling: ErrorHandling{
			Strategy:      StrategyExceptions,
			GlobalHandler: true,
		},
		Database: Database{
			Migrations: DefaultMigrationNaming,
		},
	}
}
