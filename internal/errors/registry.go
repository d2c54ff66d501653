package errors

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
}

// Registered codes.
const (
	CodeDuplicateKey  = "V001"
	CodeMissingTag    = "V002"
	CodeNilRender     = "V003"
	CodeHookPanic     = "V101"
	CodePatchAborted  = "V201"
	CodeInvalidConfig = "V301"
	CodeConfigRead    = "V302"
	CodeBadDocument   = "V401"
	CodeBadFrame      = "V501"
)

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Descriptor contract violations (V001-V099)
	// ============================================

	CodeDuplicateKey: {
		Category:   CategoryContract,
		Message:    "Duplicate key among siblings",
		Suggestion: "Keys must be unique within one child list. Derive them from a stable item ID, not from content.",
	},
	CodeMissingTag: {
		Category:   CategoryContract,
		Message:    "Element descriptor without tag",
		Suggestion: "Use vdom.Text or vdom.Comment for non-element nodes.",
	},
	CodeNilRender: {
		Category:   CategoryContract,
		Message:    "Component rendered nil",
		Suggestion: "Return vdom.Comment(\"\") when a component has nothing to show.",
	},

	// ============================================
	// Module hooks (V100-V199)
	// ============================================

	CodeHookPanic: {
		Category: CategoryHook,
		Message:  "Module hook panicked",
	},

	// ============================================
	// Host (V200-V299)
	// ============================================

	CodePatchAborted: {
		Category:   CategoryHost,
		Message:    "Patch aborted",
		Suggestion: "The live tree may be partially updated; the next full patch reconciles it again.",
	},

	// ============================================
	// Configuration (V300-V399)
	// ============================================

	CodeInvalidConfig: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	CodeConfigRead: {
		Category:   CategoryConfig,
		Message:    "Cannot read configuration file",
		Suggestion: "Pass --config with a vpatch.json or vpatch.toml file.",
	},

	// ============================================
	// Documents and wire (V400-V599)
	// ============================================

	CodeBadDocument: {
		Category:   CategoryDocument,
		Message:    "Cannot decode tree document",
		Suggestion: "Documents are JSON, YAML or CBOR objects with tag, key, text, attrs and children fields.",
	},
	CodeBadFrame: {
		Category: CategoryProtocol,
		Message:  "Malformed op frame",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
