package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// jsonEnvelope is the object form of a JSON export.
type jsonEnvelope struct {
	Tickets []json.RawMessage `json:"tickets"`
}

// parseJSON accepts either an array of ticket objects or an object with a
// "tickets" array. Each field is read on its own: a value of the wrong type
// becomes empty and the ticket is kept. Elements that are not objects are
// skipped.
func parseJSON(ctx context.Context, r io.Reader) (*ports.ParsedDataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, apperrors.ErrEmptyUpload
	}

	var items []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
		}
	case '{':
		var env jsonEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrBadRequest, err)
		}
		items = env.Tickets
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", apperrors.ErrBadRequest)
	}

	out := &ports.ParsedDataset{Rows: make([]domain.RawTicket, 0, len(items))}
	for i, item := range items {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		raw, ok := jsonRecord(item)
		if !ok {
			out.Skipped++
			continue
		}
		out.Rows = append(out.Rows, raw)
	}
	return out, nil
}

// jsonRecord maps the keys of one ticket object onto ticket fields. Keys are
// matched like CSV headers; when two keys name the same field the first in
// sorted order with a value wins.
func jsonRecord(item json.RawMessage) (domain.RawTicket, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
		return domain.RawTicket{}, false
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[field]string, len(keys))
	for _, k := range keys {
		f, ok := headerFields[normalizeHeader(k)]
		if !ok || values[f] != "" {
			continue
		}
		values[f] = jsonValue(f, obj[k])
	}

	if _, ok := parseID(values[fieldID]); !ok {
		values[fieldID] = ""
	}
	return buildRecord(func(f field) string { return values[f] })
}

// jsonValue renders a scalar as the text a spreadsheet cell would hold.
// Numbers in timestamp fields are epoch milliseconds. Null, booleans,
// objects and arrays are empty.
func jsonValue(f field, data json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}

	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		if f == fieldCreated || f == fieldUpdated {
			return epochMillis(v)
		}
		return v.String()
	}
	return ""
}

func epochMillis(n json.Number) string {
	ms, err := n.Int64()
	if err != nil {
		fl, ferr := n.Float64()
		if ferr != nil || math.IsInf(fl, 0) || math.Abs(fl) > math.MaxInt64 {
			return ""
		}
		ms = int64(fl)
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
}
