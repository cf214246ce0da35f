package casos

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Casos"

var exportHeaders = []string{
	"Número de caso", "Fecha de recepción", "Clave UPP", "Propietario", "Municipio",
	"Localidad", "MVZ", "Recepciona", "Estatus", "Semana", "Año", "Observaciones",
}

// ExportXLSX arma un libro con los casos que cumplen f (mismos filtros que List).
func (s *Service) ExportXLSX(ctx context.Context, f ListFilter) (*bytes.Buffer, error) {
	items, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return writeXLSX(items)
}

func writeXLSX(items []View) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	f.SetCellStyle(exportSheet, "A1", last, headerStyle)

	for r, v := range items {
		row := []any{
			v.NumeroCaso,
			v.FechaRecepcion.String(),
			v.ClaveUPP,
			v.Propietario,
			text(v.Municipio),
			text(v.Localidad),
			text(v.MVZ),
			text(v.UsuarioRecepciona),
			v.EstatusCaso,
			number(v.SemanaEpidemiologica),
			number(v.AnioEpidemiologico),
			text(v.Observaciones),
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("casos: export fila %d: %w", r+2, err)
		}
	}
	f.SetColWidth(exportSheet, "A", "A", 18)
	f.SetColWidth(exportSheet, "D", "D", 30)

	return f.WriteToBuffer()
}

func text(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func number(p *int) any {
	if p == nil {
		return ""
	}
	return *p
}
