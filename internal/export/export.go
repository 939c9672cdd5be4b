// Package export writes order and inventory reports to xlsx files for
// the `jecrm export` subcommand.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/andresFJ158/frontend-je-bot-crm/pkg/types"
)

// Human-readable labels for order statuses.
var statusLabels = map[string]string{
	types.OrderPendingPayment:  "Pendiente de pago",
	types.OrderPaymentReceived: "Pago recibido",
	types.OrderCompleted:       "Completado",
	types.OrderCancelled:       "Cancelado",
}

// StatusLabel returns the display label for an order status.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// DefaultOrdersPath returns a timestamped filename for an orders report.
func DefaultOrdersPath() string {
	return fmt.Sprintf("pedidos_%s.xlsx", time.Now().Format("20060102_150405"))
}

// DefaultInventoryPath returns a timestamped filename for an inventory report.
func DefaultInventoryPath() string {
	return fmt.Sprintf("inventario_%s.xlsx", time.Now().Format("20060102_150405"))
}

// Orders writes the given orders to an xlsx file at path.
func Orders(orders []types.Order, path string) error {
	f := excelize.NewFile()
	sheetName := "Pedidos"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"ID", "Fecha", "Cliente", "Teléfono", "Sucursal", "Agente", "Estado", "Subtotal", "Descuento", "Impuesto", "Total", "Ítems", "Notas"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, order := range orders {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), order.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIndex), order.CreatedAt)
		if order.User != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex), order.User.Name)
			f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIndex), order.User.Phone)
		}
		if order.Branch != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), order.Branch.Name)
		}
		if order.Agent != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowIndex), order.Agent.Name)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowIndex), StatusLabel(order.Status))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowIndex), order.Subtotal)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", rowIndex), order.Discount)
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", rowIndex), order.Tax)
		f.SetCellValue(sheetName, fmt.Sprintf("K%d", rowIndex), order.Total)
		f.SetCellValue(sheetName, fmt.Sprintf("L%d", rowIndex), itemSummary(order.Items))
		f.SetCellValue(sheetName, fmt.Sprintf("M%d", rowIndex), order.Notes)
		rowIndex++
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

// Inventory writes inventory transactions and the stock summary to an
// xlsx file at path.
func Inventory(transactions []types.InventoryTransaction, summary *types.InventorySummary, path string) error {
	f := excelize.NewFile()
	sheetName := "Movimientos"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"ID", "Fecha", "Producto", "Tipo", "Cantidad", "Glosa", "Agente"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, tx := range transactions {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), tx.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIndex), tx.CreatedAt)
		if tx.Product != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex), tx.Product.Name)
		} else {
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex), tx.ProductID)
		}
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIndex), typeLabel(tx.Type))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), tx.Quantity)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowIndex), tx.Glosa)
		if tx.Agent != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowIndex), tx.Agent.Name)
		}
		rowIndex++
	}

	if summary != nil {
		summarySheet := "Resumen"
		if _, err := f.NewSheet(summarySheet); err != nil {
			return fmt.Errorf("failed to create summary sheet: %w", err)
		}
		f.SetCellValue(summarySheet, "A1", "Total productos")
		f.SetCellValue(summarySheet, "B1", summary.TotalProducts)
		f.SetCellValue(summarySheet, "A2", "Stock total")
		f.SetCellValue(summarySheet, "B2", summary.TotalStock)
		f.SetCellValue(summarySheet, "A3", "Stock bajo")
		f.SetCellValue(summarySheet, "B3", summary.LowStock)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

// itemSummary renders order items as "2x Salteña, 1x Refresco".
func itemSummary(items []types.OrderItem) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		name := item.ProductID
		if item.Product != nil {
			name = item.Product.Name
		}
		out += fmt.Sprintf("%dx %s", item.Quantity, name)
	}
	return out
}

func typeLabel(t string) string {
	switch t {
	case types.InventoryIn:
		return "Entrada"
	case types.InventoryOut:
		return "Salida"
	default:
		return t
	}
}
