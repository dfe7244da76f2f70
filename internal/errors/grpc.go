package errors

import (
	"encoding/json"

	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	detailCodeKey = "code"
	detailMetaKey = "meta"
)

// ToGRPCError converts an error to a gRPC status error.
// Meta is attached as a structpb.Struct detail.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}

	var customErr *Error
	if !As(err, &customErr) {
		if _, ok := status.FromError(err); ok {
			return err
		}
		return status.Error(GetCode(err).GRPCCode(), err.Error())
	}

	st := status.New(customErr.Code.GRPCCode(), customErr.Message)
	if detail := metaDetail(customErr); detail != nil {
		if withDetails, detailErr := st.WithDetails(detail); detailErr == nil {
			st = withDetails
		}
	}

	return st.Err()
}

// FromGRPCError converts a gRPC error back to an *Error, restoring metadata
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	customErr := &Error{
		Code:    codeFromGRPC(st.Code()),
		Message: st.Message(),
	}

	for _, detail := range st.Details() {
		s, ok := detail.(*structpb.Struct)
		if !ok {
			continue
		}
		if meta, ok := s.AsMap()[detailMetaKey].(map[string]any); ok {
			customErr.Meta = meta
		}
		break
	}

	return customErr
}

// metaDetail flattens Meta through JSON so that typed values such as
// map[string][]string become structpb-compatible.
func metaDetail(e *Error) *structpb.Struct {
	if len(e.Meta) == 0 {
		return nil
	}

	raw, err := json.Marshal(e.Meta)
	if err != nil {
		return nil
	}
	var meta map[string]any
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil
	}

	detail, err := structpb.NewStruct(map[string]any{
		detailCodeKey: string(e.Code),
		detailMetaKey: meta,
	})
	if err != nil {
		return nil
	}
	return detail
}
