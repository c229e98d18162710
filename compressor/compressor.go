package compressor

import (
	"encoding/binary"
	"fmt"
	"sort"

	spec "github.com/jaimegarza/syntax-sub000/spec/grammar"
)

// DenseTable is a parsing table in which every state has a full row of symbol columns.
type DenseTable struct {
	entries  []int
	rowCount int
	colCount int
}

func NewDenseTable(rows [][]int) (*DenseTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("a table needs at least one row")
	}
	colCount := len(rows[0])
	if colCount <= 0 {
		return nil, fmt.Errorf("a row needs at least one column")
	}
	entries := make([]int, 0, len(rows)*colCount)
	for i, row := range rows {
		if len(row) != colCount {
			return nil, fmt.Errorf("rows must have the same length; row: %v, want: %v, got: %v", i, colCount, len(row))
		}
		entries = append(entries, row...)
	}

	return &DenseTable{
		entries:  entries,
		rowCount: len(rows),
		colCount: colCount,
	}, nil
}

func (t *DenseTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= t.rowCount || col < 0 || col >= t.colCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return t.entries[row*t.colCount+col], nil
}

func (t *DenseTable) OriginalTableSize() (int, int) {
	return t.rowCount, t.colCount
}

type Compressor interface {
	Compress(orig *DenseTable) error
	Lookup(row, col int) (int, error)
	OriginalTableSize() (int, int)
}

var (
	_ Compressor = &UniqueRowsTable{}
	_ Compressor = &RowDisplacementTable{}
)

// UniqueRowsTable stores each distinct row once. States with the same actions and gotos point to
// the same row.
type UniqueRowsTable struct {
	UniqueEntries    []int
	RowNums          []int
	OriginalRowCount int
	OriginalColCount int
}

func NewUniqueRowsTable() *UniqueRowsTable {
	return &UniqueRowsTable{}
}

func (tab *UniqueRowsTable) Lookup(row, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	return tab.UniqueEntries[tab.RowNums[row]*tab.OriginalColCount+col], nil
}

func (tab *UniqueRowsTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

func (tab *UniqueRowsTable) Compress(orig *DenseTable) error {
	var uniqueEntries []int
	rowNums := make([]int, orig.rowCount)
	hash2RowNum := map[string]int{}
	nextRowNum := 0
	for row := 0; row < orig.rowCount; row++ {
		start := row * orig.colCount
		rowHash := rowKey(orig.entries[start : start+orig.colCount])
		rowNum, ok := hash2RowNum[rowHash]
		if !ok {
			rowNum = nextRowNum
			nextRowNum++
			hash2RowNum[rowHash] = rowNum
			uniqueEntries = append(uniqueEntries, orig.entries[start:start+orig.colCount]...)
		}
		rowNums[row] = rowNum
	}

	tab.UniqueEntries = uniqueEntries
	tab.RowNums = rowNums
	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount

	return nil
}

// rowKey encodes a row as varints. Reduce actions are negative, so the encoding must be signed.
func rowKey(row []int) string {
	buf := make([]byte, 0, len(row)*binary.MaxVarintLen64)
	b := make([]byte, binary.MaxVarintLen64)
	for _, v := range row {
		n := binary.PutVarint(b, int64(v))
		buf = append(buf, b[:n]...)
	}
	return string(buf)
}

const ForbiddenValue = -1

// RowDisplacementTable overlays rows on one array so that their non-empty entries don't collide.
// Bounds records the owner row of each entry.
type RowDisplacementTable struct {
	OriginalRowCount int
	OriginalColCount int
	EmptyValue       int
	Entries          []int
	Bounds           []int
	RowDisplacement  []int
}

func NewRowDisplacementTable(emptyValue int) *RowDisplacementTable {
	return &RowDisplacementTable{
		EmptyValue: emptyValue,
	}
}

func (tab *RowDisplacementTable) Lookup(row int, col int) (int, error) {
	if row < 0 || row >= tab.OriginalRowCount || col < 0 || col >= tab.OriginalColCount {
		return tab.EmptyValue, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	d := tab.RowDisplacement[row]
	if tab.Bounds[d+col] != row {
		return tab.EmptyValue, nil
	}
	return tab.Entries[d+col], nil
}

func (tab *RowDisplacementTable) OriginalTableSize() (int, int) {
	return tab.OriginalRowCount, tab.OriginalColCount
}

type rowInfo struct {
	rowNum        int
	nonEmptyCount int
	nonEmptyCol   []int
}

func (tab *RowDisplacementTable) Compress(orig *DenseTable) error {
	infos := make([]rowInfo, orig.rowCount)
	for row := 0; row < orig.rowCount; row++ {
		infos[row].rowNum = row
		for col := 0; col < orig.colCount; col++ {
			if orig.entries[row*orig.colCount+col] == tab.EmptyValue {
				continue
			}
			infos[row].nonEmptyCount++
			infos[row].nonEmptyCol = append(infos[row].nonEmptyCol, col)
		}
	}
	// Placing dense rows first leaves the sparse ones to fill the gaps.
	sort.SliceStable(infos, func(i int, j int) bool {
		return infos[i].nonEmptyCount > infos[j].nonEmptyCount
	})

	origEntriesLen := len(orig.entries)
	entries := make([]int, origEntriesLen)
	bounds := make([]int, origEntriesLen)
	for i := 0; i < origEntriesLen; i++ {
		entries[i] = tab.EmptyValue
		bounds[i] = ForbiddenValue
	}
	resultBottom := orig.colCount
	rowDisplacement := make([]int, orig.rowCount)
	nextRowDisplacement := 0
	for _, info := range infos {
		if info.nonEmptyCount <= 0 {
			continue
		}

		for {
			overlapped := false
			for _, col := range info.nonEmptyCol {
				if bounds[nextRowDisplacement+col] == ForbiddenValue {
					continue
				}
				overlapped = true
				break
			}
			if !overlapped {
				break
			}
			nextRowDisplacement++
		}

		rowDisplacement[info.rowNum] = nextRowDisplacement
		for _, col := range info.nonEmptyCol {
			entries[nextRowDisplacement+col] = orig.entries[info.rowNum*orig.colCount+col]
			bounds[nextRowDisplacement+col] = info.rowNum
		}
		if nextRowDisplacement+orig.colCount > resultBottom {
			resultBottom = nextRowDisplacement + orig.colCount
		}
		nextRowDisplacement++
	}

	tab.OriginalRowCount = orig.rowCount
	tab.OriginalColCount = orig.colCount
	tab.Entries = entries[:resultBottom]
	tab.Bounds = bounds[:resultBottom]
	tab.RowDisplacement = rowDisplacement

	return nil
}

const (
	CompressionLevelMin = 0
	CompressionLevelMax = 2
)

// CompressRows builds the tabular form of a parsing table at the given compression level.
func CompressRows(rows [][]int, level int) (*spec.RowTable, error) {
	if level < CompressionLevelMin || level > CompressionLevelMax {
		return nil, fmt.Errorf("compression level must be %v to %v; got: %v", CompressionLevelMin, CompressionLevelMax, level)
	}

	orig, err := NewDenseTable(rows)
	if err != nil {
		return nil, err
	}
	tab := &spec.RowTable{
		CompressionLevel: level,
		RowCount:         orig.rowCount,
		ColCount:         orig.colCount,
	}
	if level == 0 {
		tab.Entries = orig.entries
		return tab, nil
	}

	ueTab := NewUniqueRowsTable()
	if err := ueTab.Compress(orig); err != nil {
		return nil, err
	}
	tab.UniqueRows = &spec.UniqueRowsTable{
		RowNums:          ueTab.RowNums,
		OriginalRowCount: ueTab.OriginalRowCount,
		OriginalColCount: ueTab.OriginalColCount,
	}
	if level == 1 {
		tab.UniqueRows.UncompressedUniqueEntries = ueTab.UniqueEntries
		tracer().Infof("tabular rows: %v -> %v unique rows", orig.rowCount, len(ueTab.UniqueEntries)/orig.colCount)
		return tab, nil
	}

	uniqueRows := make([][]int, 0, len(ueTab.UniqueEntries)/orig.colCount)
	for i := 0; i < len(ueTab.UniqueEntries); i += orig.colCount {
		uniqueRows = append(uniqueRows, ueTab.UniqueEntries[i:i+orig.colCount])
	}
	uniqueTab, err := NewDenseTable(uniqueRows)
	if err != nil {
		return nil, err
	}
	rdTab := NewRowDisplacementTable(0)
	if err := rdTab.Compress(uniqueTab); err != nil {
		return nil, err
	}
	tab.UniqueRows.UniqueEntries = &spec.RowDisplacementTable{
		OriginalRowCount: rdTab.OriginalRowCount,
		OriginalColCount: rdTab.OriginalColCount,
		EmptyValue:       rdTab.EmptyValue,
		Entries:          rdTab.Entries,
		Bounds:           rdTab.Bounds,
		RowDisplacement:  rdTab.RowDisplacement,
	}
	tracer().Infof("tabular rows: %v -> %v unique rows, %v entries after displacement", orig.rowCount, len(uniqueRows), len(rdTab.Entries))

	return tab, nil
}

// LookupRow reads an entry of a tabular parsing table regardless of its compression level.
func LookupRow(tab *spec.RowTable, row, col int) (int, error) {
	if row < 0 || row >= tab.RowCount || col < 0 || col >= tab.ColCount {
		return 0, fmt.Errorf("indexes are out of range: [%v, %v]", row, col)
	}
	switch {
	case tab.UniqueRows == nil:
		return tab.Entries[row*tab.ColCount+col], nil
	case tab.UniqueRows.UniqueEntries == nil:
		return tab.UniqueRows.UncompressedUniqueEntries[tab.UniqueRows.RowNums[row]*tab.ColCount+col], nil
	}
	rd := tab.UniqueRows.UniqueEntries
	r := tab.UniqueRows.RowNums[row]
	d := rd.RowDisplacement[r]
	if rd.Bounds[d+col] != r {
		return rd.EmptyValue, nil
	}
	return rd.Entries[d+col], nil
}
