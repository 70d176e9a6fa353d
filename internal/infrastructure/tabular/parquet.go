package tabular

import (
	"context"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/pkj0421/CIM/internal/domain/table"
	"github.com/pkj0421/CIM/pkg/errors"
)

// ReadParquet reads every column of a Parquet file as text.  Nulls become
// Missing; other types use their Arrow string rendering.
func ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker) (*table.Table, error) {
	pf, err := file.NewParquetReader(r, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "open parquet file")
	}
	defer pf.Close()

	mem := memory.NewGoAllocator()
	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "create arrow reader")
	}
	at, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLoadFailed, "read parquet data")
	}
	defer at.Release()

	schema := at.Schema()
	names := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		names[i] = f.Name
	}
	t, err := table.New(table.NormalizeHeaders(names)...)
	if err != nil {
		return nil, err
	}

	n := int(at.NumRows())
	cols := make([][]table.Value, len(names))
	for c := range names {
		cols[c] = columnValues(at.Column(c).Data(), n)
	}
	for r := 0; r < n; r++ {
		row := make([]table.Value, len(names))
		for c := range cols {
			row[c] = cols[c][r]
		}
		if err := t.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func columnValues(chunks *arrow.Chunked, n int) []table.Value {
	out := make([]table.Value, 0, n)
	for _, chunk := range chunks.Chunks() {
		for i := 0; i < chunk.Len(); i++ {
			switch {
			case chunk.IsNull(i):
				out = append(out, table.Missing)
			case chunk.DataType().ID() == arrow.STRING:
				out = append(out, table.Str(chunk.(*array.String).Value(i)))
			case chunk.DataType().ID() == arrow.LARGE_STRING:
				out = append(out, table.Str(chunk.(*array.LargeString).Value(i)))
			default:
				out = append(out, table.Str(chunk.ValueStr(i)))
			}
		}
	}
	for len(out) < n {
		out = append(out, table.Missing)
	}
	return out
}

// WriteParquet writes t with one nullable UTF-8 column per table column,
// Snappy compressed.
func WriteParquet(w io.Writer, t *table.Table) error {
	fields := make([]arrow.Field, t.Width())
	for i, c := range t.Columns() {
		fields[i] = arrow.Field{Name: c, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	mem := memory.NewGoAllocator()
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	for r := 0; r < t.Len(); r++ {
		for c, v := range t.Row(r) {
			sb := b.Field(c).(*array.StringBuilder)
			if s, ok := v.Get(); ok {
				sb.Append(s)
			} else {
				sb.AppendNull()
			}
		}
	}
	rec := b.NewRecord()
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	fw, err := pqarrow.NewFileWriter(schema, w, props, arrowProps)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "create parquet writer")
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return errors.Wrap(err, errors.ErrCodeExportFailed, "write parquet data")
	}
	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "close parquet writer")
	}
	return nil
}

//Personal.AI order the ending
