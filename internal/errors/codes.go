package errors

type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeInternal           Code = "INTERNAL_ERROR"
	CodeConfigValidation   Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError    Code = "CONFIG_READ_ERROR"
	CodeConfigParseError   Code = "CONFIG_PARSE_ERROR"
	CodeSnapshotReadError  Code = "SNAPSHOT_READ_ERROR"
	CodeSnapshotParseError Code = "SNAPSHOT_PARSE_ERROR"
	CodeMalformedResource  Code = "MALFORMED_RESOURCE"
	CodeStorageAuthError   Code = "STORAGE_AUTH_ERROR"
	CodeStorageAPIError    Code = "STORAGE_API_ERROR"
	CodeReportWriteError   Code = "REPORT_WRITE_ERROR"
)

func (c Code) String() string {
	return string(c)
}
