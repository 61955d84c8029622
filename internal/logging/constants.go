package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldParser     = "parser"
	FieldExtractor  = "extractor"
	FieldRecordType = "record_type"
	FieldTrs        = "trs"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldPages      = "pages"
	FieldDelimiter  = "delimiter"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldAddr       = "addr"
)
