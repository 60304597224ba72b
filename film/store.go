package film

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Source supplies the film collection a query runs against.
type Source interface {
	// Films returns the records in source order. Callers own the returned slice.
	Films(ctx context.Context) ([]Record, error)
}

// FileSource reads records from a content store file on every call.
type FileSource struct {
	Path string
	// Container is the slash separated path of the container node inside the file.
	// Empty means the document root.
	Container string
}

// Films implements Source.
func (s FileSource) Films(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open content store: %w", err)
	}
	defer f.Close()

	return Decode(f, s.Container)
}

// Static is an in-memory Source.
type Static []Record

// Films implements Source.
func (s Static) Films(context.Context) ([]Record, error) {
	return slices.Clone(s), nil
}

// node is a named child of a JSON object, kept in document order.
type node struct {
	name string
	raw  json.RawMessage
}

// Decode reads a content store document and returns the film entries below the
// container node, in document order.
func Decode(r io.Reader, container string) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read content store: %w", err)
	}

	raw, path, err := resolve(json.RawMessage(data), container)
	if err != nil {
		return nil, err
	}

	children, err := orderedChildren(raw)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	records := make([]Record, 0, len(children))
	for _, child := range children {
		// Container level scalars are node metadata.
		if !isObject(child.raw) {
			continue
		}

		record, err := decodeRecord(childPath(path, child.name), child.raw)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// resolve walks the document down to the container node.
func resolve(raw json.RawMessage, container string) (json.RawMessage, string, error) {
	path := ""
	for _, name := range strings.Split(strings.Trim(container, "/"), "/") {
		if name == "" {
			continue
		}

		var props map[string]json.RawMessage
		if err := json.Unmarshal(raw, &props); err != nil {
			return nil, path, &LoadError{Path: path, Err: ErrNotAnObject}
		}

		next, ok := props[name]
		if !ok {
			return nil, path, &LoadError{Path: path + "/" + name, Err: ErrContainerNotFound}
		}

		raw = next
		path += "/" + name
	}

	if !isObject(raw) {
		return nil, path, &LoadError{Path: path, Err: ErrNotAnObject}
	}
	if path == "" {
		path = "/"
	}

	return raw, path, nil
}

func childPath(parent, name string) string {
	return strings.TrimSuffix(parent, "/") + "/" + name
}

// orderedChildren lists the properties of a JSON object without losing their order.
func orderedChildren(raw json.RawMessage) ([]node, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotAnObject
	}

	var children []node
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("property '%s': %w", name, err)
		}
		children = append(children, node{name: name, raw: value})
	}

	return children, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// decodeRecord converts one entry node into a Record. Properties other than the
// film attributes are ignored.
func decodeRecord(path string, raw json.RawMessage) (Record, error) {
	var props map[string]any
	if err := json.Unmarshal(raw, &props); err != nil {
		return Record{}, &LoadError{Path: path, Err: err}
	}

	var (
		record Record
		err    error
	)

	if v, ok := props["title"]; ok && v != nil {
		if record.Title, err = cast.ToStringE(v); err != nil {
			return Record{}, &LoadError{Path: path, Field: "title", Err: err}
		}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"year", &record.Year},
		{"awards", &record.Awards},
		{"nominations", &record.Nominations},
		{"numberOfReferences", &record.NumberOfReferences},
	}
	for _, field := range ints {
		v, ok := props[field.name]
		if !ok || v == nil {
			continue
		}
		if *field.dst, err = toInt(v); err != nil {
			return Record{}, &LoadError{Path: path, Field: field.name, Err: err}
		}
	}

	if v, ok := props["isBestPicture"]; ok && v != nil {
		if record.IsBestPicture, err = toBool(v); err != nil {
			return Record{}, &LoadError{Path: path, Field: "isBestPicture", Err: err}
		}
	}

	return record, nil
}

// toInt reads a stored count or year. Strings are parsed as base 10 and numbers
// must be whole.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	case float64:
		if n != math.Trunc(n) || n < math.MinInt || n >= math.MaxInt {
			return 0, fmt.Errorf("%v is not a whole number", n)
		}
		return int(n), nil
	default:
		return cast.ToIntE(v)
	}
}

// toBool reads a stored flag. String values are true only for "true" in any case.
func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strings.EqualFold(b, "true"), nil
	default:
		return cast.ToBoolE(v)
	}
}
