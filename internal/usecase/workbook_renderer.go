package usecase

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/eloiseboudon/excelfileProcessing-sub001/internal/domain"
)

// CellKind tags every workbook cell with its visual category at construction time
type CellKind int

const (
	CellBlank CellKind = iota
	CellShopLink
	CellTitle
	CellHeader
	CellBanner
	CellPriceNote
	CellPrice
	CellName
)

func (k CellKind) String() string {
	switch k {
	case CellShopLink:
		return "shop_link"
	case CellTitle:
		return "title"
	case CellHeader:
		return "header"
	case CellBanner:
		return "banner"
	case CellPriceNote:
		return "price_note"
	case CellPrice:
		return "price"
	case CellName:
		return "name"
	default:
		return "blank"
	}
}

// Column layout of the generated sheet
const (
	workbookSheetName = "Grille Tarifaire"
	nameColumnWidth   = 60.0
	priceColumnWidth  = 15.0
	headerName        = "PRODUIT"
	headerPrice       = "PRIX HT"
)

// Default pricing notes printed after the last brand section
var DefaultPricingNotes = []string{
	"Prix HT forfaitaires, valables pour la semaine indiquée et dans la limite des stocks disponibles.",
	"Frais de port en sus, calculés à la commande selon le volume et la destination.",
}

// WorkbookCell is a single logical cell with its category
type WorkbookCell struct {
	Text string
	Kind CellKind
}

// WorkbookRow is one two-column row. Merged rows span both columns.
type WorkbookRow struct {
	Cells  [2]WorkbookCell
	Merged bool
	Brand  string // set on brand banner rows
}

// WorkbookConfig holds the boilerplate text of the workbook
type WorkbookConfig struct {
	ShopName     string
	ShopURL      string
	PricingNotes []string
}

// WorkbookRenderer turns a partitioned catalog into a styled two-column workbook
type WorkbookRenderer struct {
	shopName     string
	shopURL      string
	pricingNotes []string
}

// NewWorkbookRenderer creates a renderer with the given boilerplate
func NewWorkbookRenderer(config WorkbookConfig) *WorkbookRenderer {
	notes := config.PricingNotes
	if len(notes) == 0 {
		notes = DefaultPricingNotes
	}
	return &WorkbookRenderer{
		shopName:     config.ShopName,
		shopURL:      config.ShopURL,
		pricingNotes: notes,
	}
}

// FormatPrice renders a price as its numeric value followed by the euro sign
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64) + "€"
}

// ShopLinkText is the banner text placed at the top and bottom of the sheet
func (r *WorkbookRenderer) ShopLinkText() string {
	if r.shopURL == "" {
		return "Commandez sur notre boutique en ligne"
	}
	return "Commandez sur notre boutique en ligne : " + r.shopURL
}

// TitleText is the sheet title for a week label
func (r *WorkbookRenderer) TitleText(weekLabel string) string {
	return fmt.Sprintf("%s Grille Tarifaire %s", r.shopName, weekLabel)
}

// Layout builds the ordered rows of the sheet without touching any file
func (r *WorkbookRenderer) Layout(catalog *domain.PartitionedCatalog, weekLabel string) []WorkbookRow {
	rows := make([]WorkbookRow, 0, catalog.Len()+2*len(catalog.Sections)+6+len(r.pricingNotes)+2)

	blank := WorkbookRow{}
	shopLink := WorkbookRow{
		Cells:  [2]WorkbookCell{{Text: r.ShopLinkText(), Kind: CellShopLink}, {Kind: CellShopLink}},
		Merged: true,
	}

	rows = append(rows,
		shopLink,
		blank,
		WorkbookRow{
			Cells:  [2]WorkbookCell{{Text: r.TitleText(weekLabel), Kind: CellTitle}, {Kind: CellTitle}},
			Merged: true,
		},
		blank,
		WorkbookRow{Cells: [2]WorkbookCell{{Text: headerName, Kind: CellHeader}, {Text: headerPrice, Kind: CellHeader}}},
		blank,
	)

	for _, section := range catalog.Sections {
		rows = append(rows, WorkbookRow{
			Cells:  [2]WorkbookCell{{Text: "=== " + section.Brand + " ===", Kind: CellBanner}, {Kind: CellBanner}},
			Merged: true,
			Brand:  section.Brand,
		})
		for _, item := range section.Items {
			rows = append(rows, WorkbookRow{
				Cells: [2]WorkbookCell{
					{Text: item.Name, Kind: CellName},
					{Text: FormatPrice(item.Price), Kind: CellPrice},
				},
			})
		}
		rows = append(rows, blank)
	}

	for _, note := range r.pricingNotes {
		rows = append(rows, WorkbookRow{
			Cells:  [2]WorkbookCell{{Text: note, Kind: CellPriceNote}, {Kind: CellPriceNote}},
			Merged: true,
		})
	}
	rows = append(rows, blank, shopLink)

	return rows
}

// Render writes the layout into an xlsx document and returns its bytes.
// Nothing is returned unless the whole workbook was written.
func (r *WorkbookRenderer) Render(catalog *domain.PartitionedCatalog, weekLabel string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), workbookSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	sheet := workbookSheetName

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, err
	}

	if err := f.SetColWidth(sheet, "A", "A", nameColumnWidth); err != nil {
		return nil, fmt.Errorf("set name column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", priceColumnWidth); err != nil {
		return nil, fmt.Errorf("set price column width: %w", err)
	}

	for i, row := range r.Layout(catalog, weekLabel) {
		if err := r.writeRow(f, sheet, i+1, row, styles); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *WorkbookRenderer) writeRow(f *excelize.File, sheet string, rowNum int, row WorkbookRow, styles map[CellKind]int) error {
	for col, cell := range row.Cells {
		ref, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if cell.Text != "" {
			if err := f.SetCellValue(sheet, ref, cell.Text); err != nil {
				return err
			}
		}
		if id, ok := styles[cell.Kind]; ok {
			if err := f.SetCellStyle(sheet, ref, ref, id); err != nil {
				return err
			}
		}
	}

	if row.Merged {
		first, _ := excelize.CoordinatesToCellName(1, rowNum)
		last, _ := excelize.CoordinatesToCellName(len(row.Cells), rowNum)
		if err := f.MergeCell(sheet, first, last); err != nil {
			return err
		}
	}

	switch row.Cells[0].Kind {
	case CellShopLink:
		if r.shopURL != "" {
			ref, _ := excelize.CoordinatesToCellName(1, rowNum)
			if err := f.SetCellHyperLink(sheet, ref, r.shopURL, "External"); err != nil {
				return err
			}
		}
		return f.SetRowHeight(sheet, rowNum, 24)
	case CellTitle:
		return f.SetRowHeight(sheet, rowNum, 30)
	case CellPriceNote:
		return f.SetRowHeight(sheet, rowNum, 32)
	}
	return nil
}

// newWorkbookStyles registers one style per cell kind
func newWorkbookStyles(f *excelize.File) (map[CellKind]int, error) {
	thin := func(color string) []excelize.Border {
		return []excelize.Border{
			{Type: "left", Color: color, Style: 1},
			{Type: "top", Color: color, Style: 1},
			{Type: "right", Color: color, Style: 1},
			{Type: "bottom", Color: color, Style: 1},
		}
	}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
	}

	defs := map[CellKind]*excelize.Style{
		CellShopLink: {
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12, Underline: "single"},
			Fill:      fill("1F4E79"),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		},
		CellTitle: {
			Font:      &excelize.Font{Bold: true, Color: "1F4E79", Size: 16},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		},
		CellHeader: {
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
			Fill:      fill("2E75B6"),
			Border:    thin("1F4E79"),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		},
		CellBanner: {
			Font:      &excelize.Font{Bold: true, Color: "1F4E79", Size: 12},
			Fill:      fill("DDEBF7"),
			Border:    thin("9BC2E6"),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		},
		CellPriceNote: {
			Font:      &excelize.Font{Italic: true, Color: "C00000", Size: 9},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		},
		CellPrice: {
			Font:      &excelize.Font{Bold: true, Color: "375623"},
			Border:    thin("D9D9D9"),
			Alignment: &excelize.Alignment{Horizontal: "right"},
		},
		CellName: {
			Border: thin("D9D9D9"),
		},
	}

	styles := make(map[CellKind]int, len(defs))
	for kind := CellShopLink; kind <= CellName; kind++ {
		id, err := f.NewStyle(defs[kind])
		if err != nil {
			return nil, fmt.Errorf("create %s style: %w", kind, err)
		}
		styles[kind] = id
	}
	return styles, nil
}
