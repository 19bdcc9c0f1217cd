package rpc

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// OptionalString returns the string field key. Absent and null fields report
// ok=false; a present field of another kind is an error.
func OptionalString(in *structpb.Struct, key string) (value string, ok bool, err error) {
	v, present := in.GetFields()[key]
	if !present {
		return "", false, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return "", false, nil
	case *structpb.Value_StringValue:
		return kind.StringValue, true, nil
	default:
		return "", false, fmt.Errorf("field %q must be a string", key)
	}
}

// String is OptionalString with absent fields read as "".
func String(in *structpb.Struct, key string) (string, error) {
	v, _, err := OptionalString(in, key)
	return v, err
}
