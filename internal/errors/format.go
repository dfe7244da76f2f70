package errors

import (
	"fmt"
)

// Metadata keys attached by the import-specific constructors
const (
	MetaKind      = "kind"
	MetaField     = "field"
	MetaExpected  = "expected"
	MetaGot       = "got"
	MetaPartition = "partition"

	KindFormatValidation = "format_validation"
	KindPartitionRead    = "partition_read"
)

// FormatValidation reports a payload that cannot be normalized because a
// discriminator or required field is missing or carries the wrong value.
// It aborts the import it belongs to.
func FormatValidation(field, expected, got string) *Error {
	msg := fmt.Sprintf("%s: expected %s", field, expected)
	if got != "" {
		msg = fmt.Sprintf("%s, got %q", msg, got)
	}
	return InvalidArgument(msg).WithMetaMap(map[string]any{
		MetaKind:     KindFormatValidation,
		MetaField:    field,
		MetaExpected: expected,
		MetaGot:      got,
	})
}

// PartitionRead wraps a failure to scan or fetch from one catalog partition
func PartitionRead(partition string, cause error) *Error {
	return WrapWithCode(cause, CodeUnavailable, fmt.Sprintf("failed to read catalog partition %s", partition)).
		WithMeta(MetaKind, KindPartitionRead).
		WithMeta(MetaPartition, partition)
}

// IsFormatValidation checks if an error came from FormatValidation
func IsFormatValidation(err error) bool {
	return kindOf(err) == KindFormatValidation
}

// IsPartitionRead checks if an error came from PartitionRead
func IsPartitionRead(err error) bool {
	return kindOf(err) == KindPartitionRead
}

// FormatField returns the offending field of a format validation error
func FormatField(err error) string {
	if !IsFormatValidation(err) {
		return ""
	}
	field, _ := GetMeta(err)[MetaField].(string)
	return field
}

func kindOf(err error) string {
	kind, _ := GetMeta(err)[MetaKind].(string)
	return kind
}
