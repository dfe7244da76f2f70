// Package errors provides the structured error type used across creature-import.
//
// Every package returns *Error values built from the constructors in this
// package so that callers can branch on a Code instead of parsing messages:
//
//	err := errors.NotFoundf("creature %s not found", id)
//	if errors.IsNotFound(err) {
//	    // ...
//	}
//
// Wrapping keeps the code of the wrapped error:
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to load creature")
//	}
//
// Two import-specific kinds sit on top of the codes. FormatValidation marks
// a payload that cannot be normalized at all and carries the offending field
// and the expected value. PartitionRead marks a catalog partition that could
// not be scanned; the index recovers from it locally.
//
// Errors cross the gRPC boundary through ToGRPCError and FromGRPCError,
// which carry Meta as a structpb status detail.
package errors
