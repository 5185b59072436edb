package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	fieldStatus         = "status"
	fieldResponseObject = "responseObject"
)

// Classify parses a raw response body and maps it onto an Envelope.
//
// Malformed JSON fails with a malformed response fault. A body that violates
// the status/payload contract fails with a protocol fault. A server reported
// error is not a Go error; it is returned in Envelope.ResponseError.
func Classify[T any](raw []byte, expectPayload bool) (Envelope[T], error) {
	tree, err := decodeTree(raw)
	if err != nil {
		return Envelope[T]{}, err
	}
	if err := NormalizeDates(tree); err != nil {
		return Envelope[T]{}, malformedResponseError(err, "core: invalid date in response", raw)
	}

	root, ok := tree.(map[string]any)
	if !ok {
		return Envelope[T]{}, malformedResponseError(
			fmt.Errorf("expected JSON object, got %T", tree),
			"core: response is not an object",
			raw,
		)
	}

	status := ResponseStatus(strings.TrimSpace(fmt.Sprint(root[fieldStatus])))
	object, hasObject := responseObject(root)

	switch status {
	case StatusError:
		if !hasObject {
			return Envelope[T]{}, ProtocolFault(ErrNoErrorData, raw)
		}
		var responseErr ResponseError
		if err := reencode(object, &responseErr); err != nil {
			return Envelope[T]{}, malformedResponseError(err, "core: decode error data", raw)
		}
		return Envelope[T]{Status: StatusError, ResponseError: &responseErr}, nil
	case StatusOK:
		if !hasObject {
			if expectPayload {
				return Envelope[T]{}, ProtocolFault(ErrNoDataObject, raw)
			}
			return Envelope[T]{Status: StatusOK}, nil
		}
		var payload T
		if err := reencode(object, &payload); err != nil {
			return Envelope[T]{}, malformedResponseError(err, "core: decode response object", raw)
		}
		return Envelope[T]{Status: StatusOK, ResponseObject: &payload}, nil
	default:
		return Envelope[T]{}, ProtocolFault(ErrUnknownStatus, raw)
	}
}

func decodeTree(raw []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var tree any
	if err := decoder.Decode(&tree); err != nil {
		return nil, malformedResponseError(err, "core: response is not valid JSON", raw)
	}
	if decoder.More() {
		return nil, malformedResponseError(
			fmt.Errorf("unexpected data after JSON value"),
			"core: response is not valid JSON",
			raw,
		)
	}
	return tree, nil
}

// responseObject treats an explicit null the same as a missing key.
func responseObject(root map[string]any) (any, bool) {
	object, ok := root[fieldResponseObject]
	if !ok || object == nil {
		return nil, false
	}
	return object, true
}

// reencode moves a normalized subtree into its typed form. Dates were
// already parsed, so they serialize back as RFC 3339.
func reencode(value any, target any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, target)
}
