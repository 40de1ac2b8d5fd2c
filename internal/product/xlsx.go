package product

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Products"

var xlsxColumns = []string{"id", "name", "category", "price", "description", "stock", "rating", "image_url"}

// WriteXLSX renders the products as a single-sheet workbook with a header row.
func WriteXLSX(w io.Writer, products []Product) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	header := make([]any, len(xlsxColumns))
	for i, c := range xlsxColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	for i, p := range products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{p.ID, p.Name, p.Category, p.Price, p.Description, p.Stock, p.Rating, p.ImageURL}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// ReadXLSX parses the first sheet of a workbook. The first row is a header
// naming the columns (any order, id ignored). Rows whose numeric cells do not
// parse are returned in skipped by their 1-based sheet row number.
func ReadXLSX(r io.Reader) (products []Product, skipped []int, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) == 0 {
		return []Product{}, nil, nil
	}

	col := make(map[string]int)
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["name"]; !ok {
		return nil, nil, fmt.Errorf("header row must contain a name column")
	}

	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	products = make([]Product, 0, len(rows)-1)
	for n, row := range rows[1:] {
		p := Product{
			Name:        cell(row, "name"),
			Category:    cell(row, "category"),
			Description: cell(row, "description"),
			ImageURL:    cell(row, "image_url"),
		}
		if p.Name == "" && p.Category == "" {
			continue
		}
		var perr error
		if p.Price, perr = parseFloatCell(cell(row, "price")); perr != nil {
			skipped = append(skipped, n+2)
			continue
		}
		if p.Rating, perr = parseFloatCell(cell(row, "rating")); perr != nil {
			skipped = append(skipped, n+2)
			continue
		}
		if v := cell(row, "stock"); v != "" {
			stock, err := strconv.Atoi(v)
			if err != nil {
				skipped = append(skipped, n+2)
				continue
			}
			p.Stock = stock
		}
		products = append(products, p)
	}
	return products, skipped, nil
}

func parseFloatCell(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(strings.TrimPrefix(v, "$"), 64)
}
