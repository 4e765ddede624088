package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ncobase/queryindex/index"
)

const indexNotFound = "index_not_found_exception"

type bulkAction struct {
	Index string `json:"_index"`
	ID    string `json:"_id"`
}

// EncodeBulk renders operations as an NDJSON bulk body. Indices carry no
// mapping types, so documents are addressed by their qualified id.
func EncodeBulk(ops []index.Operation) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for _, op := range ops {
		meta := bulkAction{Index: op.Index, ID: index.QualifiedID(op.Type, op.ID)}
		switch op.Action {
		case index.ActionIndex:
			if err := enc.Encode(map[string]bulkAction{"index": meta}); err != nil {
				return nil, err
			}
			if err := enc.Encode(op.Body); err != nil {
				return nil, fmt.Errorf("encode document %s: %w", op.ID, err)
			}
		case index.ActionDelete:
			if err := enc.Encode(map[string]bulkAction{"delete": meta}); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unsupported bulk action %q", op.Action)
		}
	}
	return buf.Bytes(), nil
}

// ItemResult builds the result of op from an engine answer. Deleting a
// missing document, or one in a missing index, is a success.
func ItemResult(op index.Operation, status int, errType, reason string) index.ItemResult {
	item := index.ItemResult{
		Action: op.Action,
		Index:  op.Index,
		Type:   op.Type,
		ID:     op.ID,
		Status: status,
	}

	if op.Action == index.ActionDelete && status == http.StatusNotFound {
		if errType == "" || errType == indexNotFound {
			return item
		}
	}

	switch {
	case errType != "":
		item.Error = errType + ": " + reason
	case reason != "":
		item.Error = reason
	case status >= http.StatusBadRequest:
		item.Error = http.StatusText(status)
	}
	return item
}

// CheckItemCount verifies an engine answered every operation.
func CheckItemCount(engine string, ops, items int) error {
	if ops != items {
		return fmt.Errorf("%s: bulk response has %d items for %d operations", engine, items, ops)
	}
	return nil
}
