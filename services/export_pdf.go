package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF renders the estimate table as a PDF with the same row
// sequence as the Excel export. Returns the raw PDF bytes.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Стр. {current} из {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addPDFHeader(m, data)
	addPDFTableHeader(m)

	for _, section := range data.Sections {
		addPDFSectionBand(m, section.CategoryName)
		for _, r := range section.Rows {
			addPDFTableRow(m, r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addPDFHeader adds the estimate name, object and date.
func addPDFHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Name, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Объект: %s", data.ObjectName), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Дата: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

// addPDFTableHeader adds the five-column caption row on a green band.
func addPDFTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 22, Green: 163, Blue: 74}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New(tableHeaders[0], headerText)).WithStyle(&headerCell),
			col.New(5).Add(text.New(tableHeaders[1], headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New(tableHeaders[2], headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New(tableHeaders[3], headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New(tableHeaders[4], headerTextLeft)).WithStyle(&headerCell),
		),
	)
}

// addPDFSectionBand adds the green category band starting a section.
func addPDFSectionBand(m core.Maroto, name string) {
	bg := &props.Color{Red: 22, Green: 163, Blue: 74}
	cell := props.Cell{BackgroundColor: bg}
	m.AddRows(
		row.New(9).Add(
			col.New(12).Add(
				text.New(name, props.Text{
					Size:  11,
					Style: fontstyle.Bold,
					Align: align.Left,
					Color: &props.Color{Red: 255, Green: 255, Blue: 255},
				}),
			).WithStyle(&cell),
		),
	)
}

// addPDFTableRow adds one flattened row, styled by kind.
func addPDFTableRow(m core.Maroto, r TableRow) {
	if r.Kind == RowWorkTypeHeader {
		bg := &props.Color{Red: 219, Green: 234, Blue: 254}
		cell := props.Cell{BackgroundColor: bg}
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(
					text.New(r.Name, props.Text{
						Size:  10,
						Style: fontstyle.Bold,
						Align: align.Left,
						Color: &props.Color{Red: 30, Green: 58, Blue: 138},
					}),
				).WithStyle(&cell),
			),
		)
		return
	}

	var cellStyle *props.Cell
	textStyle := fontstyle.Bold
	if r.Kind == RowResource {
		textStyle = fontstyle.Italic
		bg := &props.Color{Red: 249, Green: 250, Blue: 251}
		cellStyle = &props.Cell{BackgroundColor: bg}
	}

	baseText := props.Text{Size: 8, Style: textStyle, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	colNumber := col.New(1).Add(text.New(r.Number, baseText))
	colName := col.New(5).Add(text.New(r.Name, leftText))
	colUnit := col.New(1).Add(text.New(r.Unit, baseText))
	colQuantity := col.New(2).Add(text.New(r.Quantity, rightText))
	colNote := col.New(3).Add(text.New(r.Note, leftText))

	if cellStyle != nil {
		colNumber = colNumber.WithStyle(cellStyle)
		colName = colName.WithStyle(cellStyle)
		colUnit = colUnit.WithStyle(cellStyle)
		colQuantity = colQuantity.WithStyle(cellStyle)
		colNote = colNote.WithStyle(cellStyle)
	}

	m.AddRows(row.New(7).Add(colNumber, colName, colUnit, colQuantity, colNote))
}
