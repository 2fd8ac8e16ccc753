package orders

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"farmfork/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// DownloadReceipt renders an order as a PDF receipt with its line items,
// totals, tracking trail, and a QR code pointing at the tracking page.
func DownloadReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, code, err := loadVisible(ctx, r, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, code, err.Error())
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FarmFork Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Order: "+order.OrderID)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Placed: "+order.CreatedAt.Format("2 Jan 2006 15:04"))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s   Payment: %s", order.Status, order.PaymentMethod))
	pdf.Ln(10)

	// line items
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(80, 7, "Item", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, it := range order.Items {
		pdf.CellFormat(80, 7, fmt.Sprintf("%s (%s)", it.Name, it.Unit), "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", it.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", it.Price*float64(it.Quantity)), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(140, 7, "Shipping", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", order.ShippingPrice), "1", 1, "R", false, 0, "")
	pdf.CellFormat(140, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", order.TotalPrice), "1", 1, "R", false, 0, "")
	pdf.Ln(8)

	if len(order.Tracking) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Tracking")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		for _, entry := range order.Tracking {
			line := fmt.Sprintf("%s  %s", entry.Timestamp.Format("2 Jan 15:04"), entry.Status)
			if entry.Note != "" {
				line += "  -  " + entry.Note
			}
			pdf.Cell(0, 5, line)
			pdf.Ln(5)
		}
		pdf.Ln(4)
	}

	// QR code linking to the tracking page
	trackURL := trackingBaseURL() + "/order/" + order.OrderID
	if png, err := qrcode.Encode(trackURL, qrcode.Medium, 256); err == nil {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("track-qr", opts, bytes.NewReader(png))
		pdf.ImageOptions("track-qr", 10, pdf.GetY(), 35, 35, false, opts, 0, "")
		pdf.SetXY(50, pdf.GetY()+14)
		pdf.SetFont("Helvetica", "", 9)
		pdf.Cell(0, 5, "Scan to track this order")
	} else {
		log.Println("receipt qr encode:", err)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", order.OrderID))
	if err := pdf.Output(w); err != nil {
		log.Println("receipt pdf output:", err)
	}
}

func trackingBaseURL() string {
	if v := os.Getenv("FRONTEND_URL"); v != "" {
		return v
	}
	return "http://localhost:3000"
}
