// Package seatsheet turns an uploaded seat-assignment spreadsheet into rows.
//
// The first row is the header. Columns are located by substring match against a
// fixed Chinese/English vocabulary, so header cells like "所属会场" or
// "QQ群号" resolve without exact naming.
package seatsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tjmun/confreg/internal/app/models"
	"github.com/xuri/excelize/v2"
)

var (
	ErrInvalidHeader     = errors.New("Excel表头格式不正确，必须包含：姓名、手机号、会场、席位、所属会场的QQ群号")
	ErrMissingDataRows   = errors.New("Excel文件至少需要包含表头和数据行")
	ErrNoValidRows       = errors.New("未找到有效的数据行")
	ErrEmptyWorkbook     = errors.New("Excel文件中没有工作表")
	ErrUnsupportedFormat = errors.New("仅支持 .xlsx 或 .csv 格式的文件")
)

// column vocabulary: Chinese keyword, English keyword (matched lower-cased)
var (
	serialKeys  = [2]string{"序号", "serial"}
	nameKeys    = [2]string{"姓名", "name"}
	phoneKeys   = [2]string{"手机号", "phone"}
	venueKeys   = [2]string{"会场", "venue"}
	seatKeys    = [2]string{"席位", "seat"}
	qqGroupKeys = [2]string{"QQ群", "qq"}
)

// Columns holds resolved zero-based column indices; Serial is -1 when absent.
type Columns struct {
	Serial  int
	Name    int
	Phone   int
	Venue   int
	Seat    int
	QQGroup int
}

// Parse reads the first sheet of an .xlsx workbook, or a .csv file, chosen by
// filename extension.
func Parse(r io.Reader, filename string) ([]models.SeatAssignment, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		grid, err := readWorkbook(r)
		if err != nil {
			return nil, err
		}
		return ParseRows(grid)
	case ".csv":
		grid, err := readCSV(r)
		if err != nil {
			return nil, err
		}
		return ParseRows(grid)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("无法读取工作表 %s: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("无法读取CSV文件: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("无法解析CSV文件: %w", err)
	}
	return rows, nil
}

// ResolveColumns locates every known column in header.
func ResolveColumns(header []string) (Columns, error) {
	cols := Columns{
		Serial:  findColumn(header, serialKeys),
		Name:    findColumn(header, nameKeys),
		Phone:   findColumn(header, phoneKeys),
		Venue:   findColumn(header, venueKeys),
		Seat:    findColumn(header, seatKeys),
		QQGroup: findColumn(header, qqGroupKeys),
	}
	for _, idx := range []int{cols.Name, cols.Phone, cols.Venue, cols.Seat, cols.QQGroup} {
		if idx < 0 {
			return cols, ErrInvalidHeader
		}
	}
	return cols, nil
}

func findColumn(header []string, keys [2]string) int {
	for i, h := range header {
		h = strings.TrimSpace(h)
		lower := strings.ToLower(h)
		if strings.Contains(h, keys[0]) || strings.Contains(lower, strings.ToLower(keys[0])) || strings.Contains(lower, keys[1]) {
			return i
		}
	}
	return -1
}

// ParseRows converts a header+data grid into seat assignments. Rows missing any
// of name, phone, venue, seat or QQ group are skipped.
func ParseRows(grid [][]string) ([]models.SeatAssignment, error) {
	if len(grid) < 2 {
		return nil, ErrMissingDataRows
	}

	cols, err := ResolveColumns(grid[0])
	if err != nil {
		return nil, err
	}

	out := make([]models.SeatAssignment, 0, len(grid)-1)
	for _, row := range grid[1:] {
		sa := models.SeatAssignment{
			SerialNumber: parseSerial(cell(row, cols.Serial)),
			Name:         cell(row, cols.Name),
			Phone:        normalizePhone(cell(row, cols.Phone)),
			Venue:        cell(row, cols.Venue),
			Seat:         cell(row, cols.Seat),
			QQGroup:      normalizePhone(cell(row, cols.QQGroup)),
		}
		if sa.Name == "" || sa.Phone == "" || sa.Venue == "" || sa.Seat == "" || sa.QQGroup == "" {
			continue
		}
		out = append(out, sa)
	}

	if len(out) == 0 {
		return nil, ErrNoValidRows
	}
	return out, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseSerial reads a leading integer the way a lenient spreadsheet user expects:
// "12", "12.0" and "12号" all give 12; blanks, non-numbers and zero give nil.
func parseSerial(s string) *int {
	end := 0
	if end < len(s) && (s[0] == '-' || s[0] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return nil
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n == 0 {
		return nil
	}
	return &n
}

// normalizePhone undoes numeric formatting of long digit strings, such as
// "1.3800001234E10" or "13800001234.0" produced by numeric cells.
func normalizePhone(s string) string {
	if s == "" || !strings.ContainsAny(s, ".eE") {
		return s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != float64(int64(v)) {
		return s
	}
	return strconv.FormatInt(int64(v), 10)
}
