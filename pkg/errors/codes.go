package errors

import (
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInvalidParam    ErrorCode = "COMMON_002"
	ErrCodeValidation      ErrorCode = "COMMON_010"
	ErrCodeSerialization   ErrorCode = "COMMON_011"
	ErrCodeConfigInvalid   ErrorCode = "COMMON_017"
	ErrCodeFileSystemError ErrorCode = "COMMON_018"
)

// Short aliases for call sites that read better without the ErrCode prefix.
const (
	CodeUnknown      = ErrorCode("")
	CodeOK           = ErrorCode("OK")
	CodeInvalidParam = ErrCodeInvalidParam
)

// Molecule Module Error Codes
const (
	ErrCodeMoleculeInvalidSMILES    ErrorCode = "MOL_001"
	ErrCodeMoleculeInvalidFormat    ErrorCode = "MOL_003"
	ErrCodeMoleculeConversionFailed ErrorCode = "MOL_011"
	ErrCodeMoleculeRenderFailed     ErrorCode = "MOL_016"
)

// Conversion Module Error Codes
const (
	ErrCodeUnsupportedFormat             ErrorCode = "CONV_001"
	ErrCodeRecordCanonicalizationFailure ErrorCode = "CONV_002"
	ErrCodeDirectoryExists               ErrorCode = "CONV_003"
	ErrCodeInvalidRelation               ErrorCode = "CONV_004"
	ErrCodeMissingColumn                 ErrorCode = "CONV_005"
	ErrCodeNoSharedColumns               ErrorCode = "CONV_006"
	ErrCodeExportFailed                  ErrorCode = "CONV_007"
	ErrCodeLoadFailed                    ErrorCode = "CONV_008"
	ErrCodeInvalidExportOptions          ErrorCode = "CONV_009"
	ErrCodeDuplicateColumn               ErrorCode = "CONV_010"
	ErrCodeRowWidthMismatch              ErrorCode = "CONV_011"
)

// Process exit statuses, following the BSD sysexits.h convention.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 64
	ExitDataErr   = 65
	ExitNoInput   = 66
	ExitCantCreat = 73
	ExitIOErr     = 74
	ExitConfig    = 78
)

// ErrorCodeExitStatus maps ErrorCodes to process exit statuses.
var ErrorCodeExitStatus = map[ErrorCode]int{
	ErrCodeInvalidParam:    ExitUsage,
	ErrCodeValidation:      ExitDataErr,
	ErrCodeSerialization:   ExitDataErr,
	ErrCodeConfigInvalid:   ExitConfig,
	ErrCodeFileSystemError: ExitIOErr,

	ErrCodeMoleculeInvalidSMILES:    ExitDataErr,
	ErrCodeMoleculeInvalidFormat:    ExitDataErr,
	ErrCodeMoleculeConversionFailed: ExitDataErr,
	ErrCodeMoleculeRenderFailed:     ExitCantCreat,

	ErrCodeUnsupportedFormat:             ExitUsage,
	ErrCodeRecordCanonicalizationFailure: ExitDataErr,
	ErrCodeDirectoryExists:               ExitOK,
	ErrCodeInvalidRelation:               ExitUsage,
	ErrCodeMissingColumn:                 ExitDataErr,
	ErrCodeNoSharedColumns:               ExitDataErr,
	ErrCodeExportFailed:                  ExitCantCreat,
	ErrCodeLoadFailed:                    ExitNoInput,
	ErrCodeInvalidExportOptions:          ExitUsage,
	ErrCodeDuplicateColumn:               ExitDataErr,
	ErrCodeRowWidthMismatch:              ExitDataErr,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInvalidParam:    "invalid parameter",
	ErrCodeValidation:      "validation failed",
	ErrCodeSerialization:   "serialization failed",
	ErrCodeConfigInvalid:   "invalid configuration",
	ErrCodeFileSystemError: "file system error",

	ErrCodeMoleculeInvalidSMILES:    "invalid SMILES format",
	ErrCodeMoleculeInvalidFormat:    "unsupported molecule format",
	ErrCodeMoleculeConversionFailed: "molecule format conversion failed",
	ErrCodeMoleculeRenderFailed:     "failed to render molecule",

	ErrCodeUnsupportedFormat:             "this format is not available yet",
	ErrCodeRecordCanonicalizationFailure: "structure record could not be canonicalized",
	ErrCodeDirectoryExists:               "directory already exists",
	ErrCodeInvalidRelation:               "unrecognised relational operator",
	ErrCodeMissingColumn:                 "column not found",
	ErrCodeNoSharedColumns:               "no common columns to operate on",
	ErrCodeExportFailed:                  "export failed",
	ErrCodeLoadFailed:                    "failed to load input",
	ErrCodeInvalidExportOptions:          "invalid export options",
	ErrCodeDuplicateColumn:               "duplicate column name",
	ErrCodeRowWidthMismatch:              "row width does not match column count",
}

// ExitStatusForCode returns the process exit status for an ErrorCode.
func ExitStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeExitStatus[code]; ok {
		return status
	}
	return ExitFailure
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsUsageError returns true if the ErrorCode is caused by how the tool was
// invoked rather than by the data it was given.
func IsUsageError(code ErrorCode) bool {
	return ExitStatusForCode(code) == ExitUsage
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 1 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
