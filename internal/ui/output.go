package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bjulian5/bbpr/internal/pullrequest"
)

// Format is an output format for listed rows
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the accepted formats
var Formats = []Format{FormatTable, FormatJSON, FormatYAML}

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if !slices.Contains(Formats, f) {
		return "", fmt.Errorf("unknown format %q: must be one of table, json, yaml", s)
	}
	return f, nil
}

// ParseFields validates a --fields selection. An empty selection yields the defaults.
func ParseFields(fields []string) ([]string, error) {
	if len(fields) == 0 {
		return slices.Clone(pullrequest.DefaultFields), nil
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !slices.Contains(pullrequest.Fields, f) {
			return nil, fmt.Errorf("unknown field %q: must be one of %s", f, strings.Join(pullrequest.Fields, ", "))
		}
		out = append(out, f)
	}
	if len(out) == 0 {
		return slices.Clone(pullrequest.DefaultFields), nil
	}
	return out, nil
}

// WriteRows writes rows in the given format. Structured formats carry only the
// selected fields, in selection order.
func WriteRows(w io.Writer, format Format, rows []pullrequest.Row, fields []string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(selectFields(rows, fields))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(selectFieldsYAML(rows, fields)); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, RenderPullRequestTable(rows, fields))
		return err
	}
}

// orderedRow keeps field order when encoded to JSON
type orderedRow struct {
	fields []string
	row    pullrequest.Row
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		var val []byte
		if f == "id" {
			val, err = json.Marshal(o.row.ID)
		} else {
			val, err = json.Marshal(o.row.Value(f))
		}
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func selectFields(rows []pullrequest.Row, fields []string) []orderedRow {
	out := make([]orderedRow, len(rows))
	for i, row := range rows {
		out[i] = orderedRow{fields: fields, row: row}
	}
	return out
}

// selectFieldsYAML builds mapping nodes so yaml.v3 keeps field order
func selectFieldsYAML(rows []pullrequest.Row, fields []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, row := range rows {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range fields {
			val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: row.Value(f)}
			if f == "id" {
				val.Tag = "!!int"
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f},
				val)
		}
		seq.Content = append(seq.Content, m)
	}
	return seq
}
