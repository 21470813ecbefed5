package geneset

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"generank/domain/core"
	"generank/ports"
)

// ExcelReader loads gene sets from a workbook where each sheet row is
// one set: the set name in the first cell, members in the rest. Rows
// with an empty first cell are skipped (spacer rows are common in
// hand-maintained workbooks).
type ExcelReader struct {
	filePath  string
	sheetName string
}

// NewExcelReader creates a workbook reader. An empty sheet name means
// the workbook's first sheet.
func NewExcelReader(filePath, sheetName string) *ExcelReader {
	return &ExcelReader{filePath: filePath, sheetName: sheetName}
}

// LoadGeneSets reads all gene sets from the configured sheet.
func (r *ExcelReader) LoadGeneSets(ctx context.Context) (map[core.SetName][]core.GeneID, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := r.sheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	sets := make(map[core.SetName][]core.GeneID)
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}

		name := core.SetName(strings.TrimSpace(row[0]))
		if name == "" {
			continue
		}
		if _, dup := sets[name]; dup {
			return nil, core.NewInvalidInputError(r.filePath, fmt.Sprintf("row %d: duplicate set name %s", i+1, name))
		}

		members := make([]core.GeneID, 0, len(row)-1)
		for _, cell := range row[1:] {
			gene := strings.TrimSpace(cell)
			if gene == "" {
				continue
			}
			members = append(members, core.GeneID(gene))
		}
		if len(members) == 0 {
			return nil, core.NewInvalidInputError(r.filePath, fmt.Sprintf("row %d: set %s has no members", i+1, name))
		}
		sets[name] = members
	}

	return sets, nil
}

var _ ports.GeneSetSource = (*ExcelReader)(nil)
