package logging

// Field names shared by every component so log output can be filtered per run.
const (
	FieldFile       = "file_path"
	FieldSource     = "source"
	FieldParser     = "parser"
	FieldMode       = "mode"
	FieldPass       = "pass"
	FieldCount      = "count"
	FieldDropped    = "dropped"
	FieldPerson     = "person"
	FieldDate       = "date"
	FieldLabel      = "label"
	FieldCase       = "case_person"
	FieldPage       = "page"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldRunID      = "run_id"
	FieldOutputFile = "output_file"
)
