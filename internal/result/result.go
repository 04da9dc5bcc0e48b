package result

// Error represents a configuration, validation, or rendering error.
type Error struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	NodeID     string `json:"node_id,omitempty"`
	Field      string `json:"field,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Warning represents a non-fatal note about the generated output.
type Warning struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	NodeID     string `json:"node_id,omitempty"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Error types.
const (
	TypeConfiguration = "configuration_error"
	TypeValidation    = "validation_error"
	TypeGeneration    = "generation_error"
	TypeDependency    = "dependency_error"
	TypeUnsupported   = "unsupported_resource"
)

// Severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// GenerateResult is the result of one generation run.
type GenerateResult struct {
	Success   bool              `json:"success"`
	Resources int               `json:"resources"`
	Files     map[string][]byte `json:"-"` // filename -> content
	Errors    []Error           `json:"errors,omitempty"`
	Warnings  []Warning         `json:"warnings,omitempty"`
}

// Fail appends errors and marks the result unsuccessful.
func (r *GenerateResult) Fail(errs ...Error) {
	r.Errors = append(r.Errors, errs...)
	if len(errs) > 0 {
		r.Success = false
	}
}
