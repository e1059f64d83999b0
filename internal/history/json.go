package history

import (
	"bytes"
	"encoding/json"

	"github.com/kilupskalvis/annotate/internal/models"
)

// annotationsKey is the root field holding the annotation array.
const annotationsKey = "annotations"

// ToJSONArray encodes the current items, in order, as a JSON array.
func (h *History) ToJSONArray() ([]byte, error) {
	elems := make([]json.RawMessage, 0, len(h.items))
	for _, item := range h.items {
		data, err := item.MarshalJSON()
		if err != nil {
			return nil, &Error{Kind: KindFormat, Op: "to json", Err: err}
		}
		elems = append(elems, data)
	}
	return json.Marshal(elems)
}

// FromJSONObject imports the "annotations" array of a JSON object.
// See FromJSONArray.
func (h *History) FromJSONObject(data []byte, format models.Format) error {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return &Error{Kind: KindFormat, Op: "from json object", Err: err}
	}
	if root == nil {
		return formatError("from json object", "root is not an object")
	}
	value, ok := root[annotationsKey]
	if !ok {
		return formatError("from json object", "no content <%s> in json", annotationsKey)
	}
	if !isArray(value) {
		return formatError("from json object", "content <%s> in json is not array", annotationsKey)
	}
	return h.FromJSONArray(value, format)
}

// FromJSONArray decodes each object element of a JSON array as an item of the
// given format and adds it, so every imported item is its own undo step.
// Non-object elements are skipped. Nothing is added unless every object
// element decodes.
func (h *History) FromJSONArray(data []byte, format models.Format) error {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return &Error{Kind: KindFormat, Op: "from json array", Err: err}
	}

	items := make([]models.Item, 0, len(elems))
	for i, elem := range elems {
		if !isObject(elem) {
			h.logger.Debug("skipping non-object annotation", "index", i)
			continue
		}
		item, err := models.DecodeItem(format, elem)
		if err != nil {
			return &Error{Kind: KindFormat, Op: "from json array", Index: i, Err: err}
		}
		items = append(items, item)
	}

	for _, item := range items {
		h.Add(item)
	}
	h.logger.Debug("imported annotations", "format", format, "count", len(items))
	return nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
