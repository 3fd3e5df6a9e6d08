package main

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/require"
)

func requireOrdersSchema(t *testing.T, table arrow.Table) {
	require.Equal(t, []string{"orderkey", "custkey", "orderdate", "totalprice"}, columnNames(table))
	require.Equal(t, int64(3), table.NumRows())
	require.Equal(t, arrow.PrimitiveTypes.Int64, table.Column(0).DataType())
	require.Equal(t, arrow.PrimitiveTypes.Int64, table.Column(1).DataType())
	require.Equal(t, arrow.FixedWidthTypes.Date32, table.Column(2).DataType())
	require.Equal(t, arrow.PrimitiveTypes.Float64, table.Column(3).DataType())
	require.Equal(t, []int64{1, 2, 3}, int64Values(t, table, 0))
	require.Equal(t, []arrow.Date32{date(t, "1996-01-02"), date(t, "1996-12-01"), date(t, "1993-10-14")}, date32Values(t, table, 2))
}

func TestReaderParquet(t *testing.T) {
	settings := testSettings(t, IOTypeParquet)
	orders := ordersTable(t)
	defer orders.Release()
	writeParquet(t, TablePath(settings, TableOrders), orders)

	table, err := NewReader(settings, Pool).Read(context.Background(), TableOrders)
	require.Nil(t, err)
	defer table.Release()
	requireOrdersSchema(t, table)
}

func TestReaderSkipReadsParquet(t *testing.T) {
	settings := testSettings(t, IOTypeSkip)
	region := singleColumnTable("r_regionkey", 0, 1, 2, 3, 4)
	defer region.Release()
	writeParquet(t, filepath.Join(settings.DatasetBaseDir(), "region.parquet"), region)

	table, err := NewReader(settings, Pool).Read(context.Background(), TableRegion)
	require.Nil(t, err)
	defer table.Release()
	require.Equal(t, []int64{0, 1, 2, 3, 4}, int64Values(t, table, 0))
}

func TestReaderFeather(t *testing.T) {
	settings := testSettings(t, IOTypeFeather)
	orders := ordersTable(t)
	defer orders.Release()
	writeFeather(t, TablePath(settings, TableOrders), orders)

	table, err := NewReader(settings, Pool).Read(context.Background(), TableOrders)
	require.Nil(t, err)
	defer table.Release()
	requireOrdersSchema(t, table)
}

func TestReaderCsvCastsDates(t *testing.T) {
	settings := testSettings(t, IOTypeCSV)
	writeFile(t, TablePath(settings, TableOrders), []byte(ordersCsv))

	table, err := NewReader(settings, Pool).Read(context.Background(), TableOrders)
	require.Nil(t, err)
	defer table.Release()
	requireOrdersSchema(t, table)
}

func TestReaderCsvDelimiter(t *testing.T) {
	settings := testSettings(t, IOTypeCSV)
	settings.Run.CSVDelimiter = '|'
	writeFile(t, TablePath(settings, TableLineItem), []byte("l_orderkey|l_shipdate|l_comment\n1|1996-03-13|egular courts\n1|\"1996-04-12\"|ly final dependencies\n"))

	table, err := NewReader(settings, Pool).Read(context.Background(), TableLineItem)
	require.Nil(t, err)
	defer table.Release()
	require.Equal(t, []string{"l_orderkey", "l_shipdate", "l_comment"}, columnNames(table))
	require.Equal(t, []arrow.Date32{date(t, "1996-03-13"), date(t, "1996-04-12")}, date32Values(t, table, 1))
	require.Equal(t, arrow.BinaryTypes.String, table.Column(2).DataType())
}

func TestReaderCsvInfersWholeColumn(t *testing.T) {
	settings := testSettings(t, IOTypeCSV)
	writeFile(t, TablePath(settings, TableOrders), []byte(`orderkey,orderstatus,totalprice,orderdate
3,F,100,1993-10-14
1,O,173665.47,1996-01-02
2,,46929.18,1996-12-01
`))

	table, err := NewReader(settings, Pool).Read(context.Background(), TableOrders)
	require.Nil(t, err)
	defer table.Release()
	require.Equal(t, []string{"orderkey", "orderstatus", "totalprice", "orderdate"}, columnNames(table))
	require.Equal(t, arrow.PrimitiveTypes.Int64, table.Column(0).DataType())
	require.Equal(t, arrow.BinaryTypes.String, table.Column(1).DataType())
	require.Equal(t, arrow.PrimitiveTypes.Float64, table.Column(2).DataType())
	require.Equal(t, arrow.FixedWidthTypes.Date32, table.Column(3).DataType())
	require.Equal(t, []int64{3, 1, 2}, int64Values(t, table, 0))
	require.Equal(t, []string{"F", "O", ""}, stringValues(t, table, 1))
	require.Equal(t, []float64{100, 173665.47, 46929.18}, float64Values(t, table, 2))
	require.Equal(t, []arrow.Date32{date(t, "1993-10-14"), date(t, "1996-01-02"), date(t, "1996-12-01")}, date32Values(t, table, 3))
}

func TestReaderCsvInvalidDate(t *testing.T) {
	settings := testSettings(t, IOTypeCSV)
	writeFile(t, TablePath(settings, TableOrders), []byte("orderkey,orderdate\n1,yesterday\n"))

	table, err := NewReader(settings, Pool).Read(context.Background(), TableOrders)
	require.Nil(t, table)
	require.ErrorContains(t, err, "orderdate")
}

func TestReaderUnsupportedFormat(t *testing.T) {
	settings := testSettings(t, IOType("json"))

	table, err := NewReader(settings, Pool).Read(context.Background(), TableOrders)
	require.Nil(t, table)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	require.Contains(t, err.Error(), `"json"`)
}

func TestReaderReadsIOTypeAtCallTime(t *testing.T) {
	settings := testSettings(t, IOTypeParquet)
	writeFile(t, filepath.Join(settings.DatasetBaseDir(), "orders.csv"), []byte(ordersCsv))
	reader := NewReader(settings, Pool)

	_, err := reader.Read(context.Background(), TableOrders)
	require.ErrorIs(t, err, fs.ErrNotExist)

	settings.Run.IOType = IOTypeCSV
	table, err := reader.Read(context.Background(), TableOrders)
	require.Nil(t, err)
	defer table.Release()
	requireOrdersSchema(t, table)
}

func TestReaderUnknownTable(t *testing.T) {
	settings := testSettings(t, IOTypeParquet)
	_, err := NewReader(settings, Pool).Read(context.Background(), TableName("lineitems"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

type staticReader struct {
	table arrow.Table
	paths []string
}

func (r *staticReader) ReadTable(_ context.Context, path string) (arrow.Table, error) {
	r.paths = append(r.paths, path)
	r.table.Retain()
	return r.table, nil
}

func TestReaderRegister(t *testing.T) {
	settings := testSettings(t, IOType("arrows"))
	static := &staticReader{table: singleColumnTable("s_suppkey", 1)}
	defer static.table.Release()

	reader := NewReader(settings, Pool)
	reader.Register(IOType("arrows"), static)
	table, err := reader.Read(context.Background(), TableSupplier)
	require.Nil(t, err)
	defer table.Release()
	require.Same(t, static.table, table)
	require.Equal(t, []string{filepath.Join(settings.DatasetBaseDir(), "supplier.arrows")}, static.paths)
}
