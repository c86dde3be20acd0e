package services

// ExportSection is one estimate section ready for rendering: the
// category band plus the flattened table rows beneath it. Numbering
// restarts per section because the flattener runs once per section.
type ExportSection struct {
	CategoryName string
	TotalArea    float64
	Rows         []TableRow
}

// ExportData holds everything the Excel and PDF builders need. Both
// consume the same rows, so the two artifacts always agree with the
// on-screen table.
type ExportData struct {
	Name        string
	ObjectName  string
	Status      string
	CreatedDate string
	Sections    []ExportSection
}

// tableHeaders are the five column captions shared by screen and export.
var tableHeaders = []string{"№", "Наименование работ", "Ед. изм.", "Кол-во", "Примечание"}
