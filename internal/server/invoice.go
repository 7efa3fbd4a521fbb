package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opencourse/aktiva/internal/providers/pdf"
)

func (s *Server) ListInvoices(c *gin.Context) {
	companyID, err := parseOptionalIDQuery(c, "company_id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items, err := s.invoiceSvc.List(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	item, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

func (s *Server) RenderInvoicePDF(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	ctx := c.Request.Context()
	invoice, err := s.invoiceSvc.GetByID(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	company, err := s.companySvc.Get(ctx, invoice.CompanyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc := pdf.InvoiceDocument{
		SellerName:    s.cfg.AppName,
		InvoiceNumber: invoice.InvoiceNumber,
		IssueDate:     invoice.CreatedAt.Format("2006-01-02"),
		DueDate:       invoice.DueDate.Format("2006-01-02"),
		Status:        string(invoice.Status),
		BillToName:    company.Name,
		Subtotal:      formatAmount(invoice.Subtotal, invoice.Currency),
		Tax:           formatAmount(invoice.TaxAmount, invoice.Currency),
		Total:         formatAmount(invoice.Total, invoice.Currency),
		Currency:      invoice.Currency,
	}
	for _, item := range invoice.Items {
		doc.Items = append(doc.Items, pdf.InvoiceLine{
			Description: item.Description,
			Qty:         item.Quantity,
			UnitPrice:   formatAmount(item.UnitAmount, invoice.Currency),
			Amount:      formatAmount(item.Amount, invoice.Currency),
		})
	}

	reader, err := s.pdfProvider.GenerateInvoice(ctx, doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", invoice.InvoiceNumber+".pdf"))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

// formatAmount renders integer minor units as a decimal string with the
// currency code, e.g. "EUR 700.00".
func formatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s %s%d.%02d", currency, sign, minor/100, minor%100)
}
