package seatsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, addr, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParse_Workbook(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"序号", "姓名", "手机号", "会场", "席位", "所属会场的QQ群号"},
		{1, " 张三 ", 13800001234, "Venue A", "A-12", 123456789},
		{2, "李四", "13900005678", "Venue B", "B-01", "987654321"},
		{3, "王五", "", "Venue B", "B-02", "987654321"},
		{"", "赵六", "13700009999", "Venue C", "C-07", "555"},
	})

	rows, err := Parse(buf, "seats.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "张三", rows[0].Name)
	assert.Equal(t, "13800001234", rows[0].Phone)
	assert.Equal(t, "123456789", rows[0].QQGroup)
	require.NotNil(t, rows[0].SerialNumber)
	assert.Equal(t, 1, *rows[0].SerialNumber)

	assert.Equal(t, "李四", rows[1].Name)
	assert.Nil(t, rows[2].SerialNumber)
	assert.Equal(t, "Venue C", rows[2].Venue)
}

func TestParse_EnglishHeaderWithoutSerial(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Name", "Phone Number", "Venue", "Seat", "QQ Group"},
		{"Alice", "13800001234", "UNSC", "S-1", "111"},
	})

	rows, err := Parse(buf, "SEATS.XLSX")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].SerialNumber)
	assert.Equal(t, "UNSC", rows[0].Venue)
}

func TestParse_CSV(t *testing.T) {
	data := "\xef\xbb\xbf序号,姓名,手机号,会场,席位,QQ群\n7,张三,13800001234,Venue A,A-12,123456789\n"

	rows, err := Parse(strings.NewReader(data), "seats.csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 7, *rows[0].SerialNumber)
	assert.Equal(t, "A-12", rows[0].Seat)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]interface{}
		want error
	}{
		{
			name: "header only",
			rows: [][]interface{}{{"姓名", "手机号", "会场", "席位", "QQ群"}},
			want: ErrMissingDataRows,
		},
		{
			name: "missing qq column",
			rows: [][]interface{}{{"姓名", "手机号", "会场", "席位"}, {"张三", "13800001234", "A", "1"}},
			want: ErrInvalidHeader,
		},
		{
			name: "no complete row",
			rows: [][]interface{}{{"姓名", "手机号", "会场", "席位", "QQ群"}, {"张三", "", "A", "1", "2"}, {" ", "1", "A", "1", "2"}},
			want: ErrNoValidRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(workbook(t, tt.rows), "seats.xlsx")
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse(strings.NewReader("x"), "seats.xls")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Parse(strings.NewReader("not a zip"), "seats.xlsx")
	assert.Error(t, err)
}

func TestParseSerial(t *testing.T) {
	tests := map[string]*int{
		"12":   intPtr(12),
		"12.0": intPtr(12),
		"12号":  intPtr(12),
		"-3":   intPtr(-3),
		"":     nil,
		"abc":  nil,
		"+":    nil,
		"0":    nil,
		"00":   nil,
		"0.0":  nil,
	}
	for in, want := range tests {
		got := parseSerial(in)
		if want == nil {
			assert.Nil(t, got, in)
			continue
		}
		require.NotNil(t, got, in)
		assert.Equal(t, *want, *got, in)
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "13800001234", normalizePhone("1.3800001234E10"))
	assert.Equal(t, "13800001234", normalizePhone("13800001234.0"))
	assert.Equal(t, "138-0000-1234", normalizePhone("138-0000-1234"))
	assert.Equal(t, "12.5", normalizePhone("12.5"))
}

func intPtr(i int) *int { return &i }
