package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/arveloz/erpforms/internal/domain"
)

// handleOrderExport writes the filtered order listing as an XLSX
// workbook. Admin only.
func (s *Server) handleOrderExport(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	qv := r.URL.Query()
	f := domain.OrderFilter{
		Status:     domain.OrderStatus(qv.Get("status")),
		Subsidiary: qv.Get("subsidiary"),
		Department: qv.Get("department"),
	}
	if raw := qv.Get("customer"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			f.CustomerID = &id
		}
	}
	rows, err := s.orderList.List(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("order export")
		http.Error(w, "export", 500)
		return
	}

	xf := excelize.NewFile()
	const sheet = "Orders"
	_ = xf.SetSheetName("Sheet1", sheet)
	headers := []string{"Internal ID", "Number", "Date", "Status", "Customer", "Subsidiary", "Department", "Class", "Subtotal", "Tax", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = xf.SetCellValue(sheet, cell, h)
	}
	for rIdx, row := range rows {
		vals := []any{row.ID.String(), row.Number, row.Date, string(row.Status), row.Customer, row.Subsidiary, row.Department, row.Class, row.Subtotal, row.Tax, row.Total}
		for cIdx, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(cIdx+1, rIdx+2)
			_ = xf.SetCellValue(sheet, cell, v)
		}
	}

	name := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := xf.Write(w); err != nil {
		log.Error().Err(err).Msg("xlsx write")
	}
}
