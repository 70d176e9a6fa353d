package tabular

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/pkg/errors"
)

// ReadSMI reads one structure per line: the SMILES, whitespace, then an
// optional identifier (the rest of the line).  Structures go to
// smilesColumn and identifiers to idColumn.  A missing identifier defaults
// to the 0-based line index among data lines.  Blank lines and a
// "smiles id" header are skipped.
func ReadSMI(r io.Reader, smilesColumn, idColumn string) (*table.Table, error) {
	t, err := table.New(smilesColumn, idColumn)
	if err != nil {
		return nil, err
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		smiles, id := line, ""
		if i := strings.IndexAny(line, " \t"); i >= 0 {
			smiles, id = line[:i], strings.TrimSpace(line[i+1:])
		}
		if first {
			first = false
			if strings.EqualFold(smiles, "smiles") {
				continue
			}
		}
		if id == "" {
			id = strconv.Itoa(t.Len())
		}
		if err := t.AppendRow(table.Str(smiles), table.Str(id)); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "read smiles file")
	}
	return t, nil
}

// WriteSMI writes "smiles<TAB>id" lines.  Rows with a missing structure are
// skipped and counted; an empty idColumn, or a missing ID, uses the row
// index.
func WriteSMI(w io.Writer, t *table.Table, smilesColumn, idColumn string) (skipped int, err error) {
	structures, err := t.Column(smilesColumn)
	if err != nil {
		return 0, err
	}
	var ids []table.Value
	if idColumn != "" {
		if ids, err = t.Column(idColumn); err != nil {
			return 0, err
		}
	}
	bw := bufio.NewWriter(w)
	for i, s := range structures {
		smiles, ok := s.Get()
		if !ok || smiles == "" {
			skipped++
			continue
		}
		id := strconv.Itoa(i)
		if ids != nil {
			if v, ok := ids[i].Get(); ok && v != "" {
				id = v
			}
		}
		fmt.Fprintf(bw, "%s\t%s\n", smiles, id)
	}
	if err := bw.Flush(); err != nil {
		return skipped, errors.Wrap(err, errors.ErrCodeExportFailed, "write smiles file")
	}
	return skipped, nil
}

//Personal.AI order the ending
