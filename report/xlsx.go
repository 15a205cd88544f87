// Copyright 2026 The Hemoloc Authors
// SPDX-License-Identifier: Apache-2.0

// Package report exports search results as spreadsheets.
package report

import (
	"fmt"
	"io"

	"github.com/hemoloc/hemoloc/facility"
	"github.com/hemoloc/hemoloc/spatial"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the results.
const SheetName = "Pontos de doação"

// Header is the first row of the sheet.
var Header = []any{
	"Posição", "Nome", "Tipo", "Endereço", "Latitude", "Longitude", "Distância (km)", "OSM ID",
}

// WriteXLSX writes facilities, in order, as an .xlsx workbook. The origin is
// recorded in the workbook title.
func WriteXLSX(w io.Writer, origin spatial.Point, facilities []facility.Facility) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("creating stream writer: %w", err)
	}

	if err := sw.SetRow("A1", Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, fac := range facilities {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		row := []any{
			i + 1, fac.Name, fac.Type.Label(), fac.Address,
			fac.Point.Lat, fac.Point.Lng, fac.DistanceKm, fac.ID,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   fmt.Sprintf("Pontos de doação perto de %s", origin),
		Creator: "hemoloc",
	}); err != nil {
		return fmt.Errorf("setting properties: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}
