package excel

import (
	"sort"
)

// Constants is a read-only table of automation enum codes, keyed by the
// symbolic name the host uses (e.g. "xlOpenXMLWorkbook").
type Constants struct {
	values map[string]int32
}

// Lookup returns the code registered for name.
func (c Constants) Lookup(name string) (int32, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Names returns all constant names in sorted order.
func (c Constants) Names() []string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c Constants) Len() int {
	return len(c.values)
}

// DefaultConstants returns the XlConstants table shared by all backends.
// go-ole cannot enumerate the host type library, so the table is static.
func DefaultConstants() Constants {
	return defaultConstants
}

var defaultConstants = Constants{values: map[string]int32{
	// file formats
	"xlWorkbookDefault":             51,
	"xlOpenXMLWorkbook":             51,
	"xlOpenXMLWorkbookMacroEnabled": 52,
	"xlExcel8":                      56,
	"xlCSV":                         6,
	"xlWorkbookNormal":              -4143,

	// window state
	"xlMaximized": -4137,
	"xlMinimized": -4140,
	"xlNormal":    -4143,

	// alignment
	"xlCenter":  -4108,
	"xlLeft":    -4131,
	"xlRight":   -4152,
	"xlTop":     -4160,
	"xlBottom":  -4107,
	"xlGeneral": 1,

	// borders
	"xlContinuous":       1,
	"xlDash":             -4115,
	"xlDot":              -4118,
	"xlDouble":           -4119,
	"xlThin":             2,
	"xlMedium":           -4138,
	"xlThick":            4,
	"xlDiagonalDown":     5,
	"xlDiagonalUp":       6,
	"xlEdgeLeft":         7,
	"xlEdgeTop":          8,
	"xlEdgeBottom":       9,
	"xlEdgeRight":        10,
	"xlInsideVertical":   11,
	"xlInsideHorizontal": 12,

	// fill and font
	"xlSolid":                1,
	"xlNone":                 -4142,
	"xlAutomatic":            -4105,
	"xlUnderlineStyleSingle": 2,
	"xlUnderlineStyleNone":   -4142,

	// navigation
	"xlDown":             -4121,
	"xlUp":               -4162,
	"xlToLeft":           -4159,
	"xlToRight":          -4161,
	"xlCellTypeLastCell": 11,

	// paste
	"xlPasteAll":     -4104,
	"xlPasteValues":  -4163,
	"xlPasteFormats": -4122,

	// sheets
	"xlWorksheet":       -4167,
	"xlChart":           -4109,
	"xlSheetVisible":    -1,
	"xlSheetHidden":     0,
	"xlSheetVeryHidden": 2,

	// calculation
	"xlCalculationAutomatic": -4105,
	"xlCalculationManual":    -4135,

	// find, sort and headers
	"xlValues":     -4163,
	"xlFormulas":   -4123,
	"xlWhole":      1,
	"xlPart":       2,
	"xlByRows":     1,
	"xlByColumns":  2,
	"xlAscending":  1,
	"xlDescending": 2,
	"xlYes":        1,
	"xlNo":         2,
	"xlGuess":      0,

	// page setup
	"xlPortrait":  1,
	"xlLandscape": 2,

	// charts
	"xlColumnClustered": 51,
	"xlBarClustered":    57,
	"xlLine":            4,
	"xlPie":             5,
	"xlXYScatter":       -4169,

	"xlLocalSessionChanges": 2,
}}
