package log

// Field names.
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldKey       = "key"
	FieldFile      = "file"
	FieldFormat    = "format"
	FieldLine      = "line"
	FieldBatch     = "batch"
	FieldParsed    = "parsed"
	FieldAdded     = "added"
	FieldSkipped   = "skipped"
	FieldCategory  = "category"
	FieldBackend   = "backend"
)

// Component names.
const (
	ComponentApp        = "app"
	ComponentImport     = "import"
	ComponentStorage    = "storage"
	ComponentCategories = "categories"
	ComponentRules      = "rules"
	ComponentLedger     = "ledger"
)
