package tabular

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/pkg/errors"
)

// ReadJSON reads an array of flat objects.  Columns appear in first-seen key
// order; a key absent from a record is Missing, as is null.  Numbers and
// booleans keep their literal text, nested values their JSON encoding.
func ReadJSON(r io.Reader) (*table.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	tok, err := dec.Token()
	if err == io.EOF {
		return table.New()
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "read json")
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errors.New(errors.ErrCodeLoadFailed, "json input must be an array of records")
	}

	var columns []string
	position := map[string]int{}
	var records []map[string]table.Value
	for dec.More() {
		rec, keys, err := readRecord(dec)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "read json record").WithDetailf("record=%d", len(records))
		}
		for _, k := range keys {
			if _, seen := position[k]; !seen {
				position[k] = len(columns)
				columns = append(columns, k)
			}
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "read json")
	}

	t, err := table.New(table.NormalizeHeaders(columns)...)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		row := make([]table.Value, len(columns))
		for i, c := range columns {
			row[i] = rec[c]
		}
		if err := t.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func readRecord(dec *json.Decoder) (map[string]table.Value, []string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, errors.New(errors.ErrCodeLoadFailed, "json record must be an object")
	}
	rec := map[string]table.Value{}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		v, err := jsonValue(raw)
		if err != nil {
			return nil, nil, err
		}
		if _, dup := rec[key]; !dup {
			keys = append(keys, key)
		}
		rec[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return rec, keys, nil
}

func jsonValue(raw json.RawMessage) (table.Value, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return table.Missing, nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return table.Missing, err
		}
		return table.Str(s), nil
	}
	return table.Str(string(raw)), nil
}

// WriteJSON writes t as an indented array of records in column order.
// Missing values are written as null.
func WriteJSON(w io.Writer, t *table.Table) error {
	bw := bufio.NewWriter(w)
	columns := t.Columns()
	keys := make([][]byte, len(columns))
	for i, c := range columns {
		k, err := json.Marshal(c)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "encode column name")
		}
		keys[i] = k
	}

	bw.WriteString("[")
	for r := 0; r < t.Len(); r++ {
		if r > 0 {
			bw.WriteString(",")
		}
		bw.WriteString("\n  {")
		for i, v := range t.Row(r) {
			if i > 0 {
				bw.WriteString(", ")
			}
			bw.Write(keys[i])
			bw.WriteString(": ")
			s, ok := v.Get()
			if !ok {
				bw.WriteString("null")
				continue
			}
			enc, err := json.Marshal(s)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeSerialization, "encode cell").WithDetailf("row=%d column=%s", r, columns[i])
			}
			bw.Write(enc)
		}
		bw.WriteString("}")
	}
	if t.Len() > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString("]\n")
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "write json")
	}
	return nil
}

//Personal.AI order the ending
