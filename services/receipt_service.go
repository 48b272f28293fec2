package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jadesdev/limo-drive/models"
)

// ReceiptService renders a paid booking's receipt to PDF through headless
// Chrome.
type ReceiptService struct {
	tmpl *template.Template
}

func NewReceiptService() *ReceiptService {
	return &ReceiptService{
		tmpl: template.Must(template.New("receipt").Parse(receiptTemplate)),
	}
}

type receiptData struct {
	Code          string
	IssuedAt      string
	CustomerName  string
	CustomerEmail string
	ServiceType   string
	Pickup        string
	Dropoff       string
	PickupTime    string
	Vehicle       string
	Gateway       string
	Reference     string
	Amount        string
	Currency      string
}

func (s *ReceiptService) GenerateReceiptPDF(ctx context.Context, payment *models.Payment) ([]byte, error) {
	if payment.Booking == nil {
		return nil, fmt.Errorf("payment %s has no booking loaded", payment.ID)
	}

	html, err := s.renderHTML(payment)
	if err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return printToPDF(ctx, html)
}

func (s *ReceiptService) renderHTML(payment *models.Payment) (string, error) {
	booking := payment.Booking

	data := receiptData{
		Code:        booking.Code,
		IssuedAt:    payment.CreatedAt.Format("January 2, 2006"),
		ServiceType: booking.ServiceType,
		Pickup:      booking.PickupAddress,
		PickupTime:  booking.PickupDatetime.Format("Mon, 02 Jan 2006 3:04 PM"),
		Gateway:     payment.GatewayName,
		Reference:   payment.GatewayRef,
		Amount:      fmt.Sprintf("%.2f", payment.Amount),
		Currency:    payment.Currency,
	}
	if payment.CustomerName != nil {
		data.CustomerName = *payment.CustomerName
	}
	if payment.CustomerEmail != nil {
		data.CustomerEmail = *payment.CustomerEmail
	}
	if booking.DropoffAddress != nil {
		data.Dropoff = *booking.DropoffAddress
	}
	if booking.Fleet != nil {
		data.Vehicle = booking.Fleet.Name
	}

	var rendered bytes.Buffer
	if err := s.tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func printToPDF(parent context.Context, htmlContent string) ([]byte, error) {
	timeoutCtx, cancelTimeout := context.WithTimeout(parent, 30*time.Second)
	defer cancelTimeout()

	ctx, cancel := chromedp.NewContext(timeoutCtx)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; color: #1a1a2e; margin: 40px; }
  .header { border-bottom: 3px solid #c9a227; padding-bottom: 16px; margin-bottom: 24px; }
  .header h1 { margin: 0; font-size: 22px; letter-spacing: 1px; }
  .muted { color: #666; font-size: 13px; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  td { padding: 8px 0; font-size: 14px; vertical-align: top; }
  td.label { color: #666; width: 35%; }
  .total { border-top: 2px solid #1a1a2e; margin-top: 24px; padding-top: 12px; font-size: 18px; font-weight: bold; text-align: right; }
</style>
</head>
<body>
  <div class="header">
    <h1>PAYMENT RECEIPT</h1>
    <div class="muted">Booking {{.Code}} &middot; Issued {{.IssuedAt}}</div>
  </div>
  <table>
    <tr><td class="label">Billed to</td><td>{{.CustomerName}}<br>{{.CustomerEmail}}</td></tr>
    <tr><td class="label">Service</td><td>{{.ServiceType}}</td></tr>
    <tr><td class="label">Vehicle</td><td>{{.Vehicle}}</td></tr>
    <tr><td class="label">Pickup</td><td>{{.Pickup}}<br><span class="muted">{{.PickupTime}}</span></td></tr>
    {{if .Dropoff}}<tr><td class="label">Dropoff</td><td>{{.Dropoff}}</td></tr>{{end}}
    <tr><td class="label">Paid via</td><td>{{.Gateway}} ({{.Reference}})</td></tr>
  </table>
  <div class="total">{{.Currency}} {{.Amount}}</div>
</body>
</html>`
