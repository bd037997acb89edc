package pos

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/application/ports"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/receipt"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
)

// ReceiptUseCase genera recibos en texto, PDF o XML.
type ReceiptUseCase struct {
	orders  repository.OrderRepository
	text    *receipt.TextRenderer
	pdf     ports.ReceiptPDFGenerator
	xml     ports.ReceiptXMLBuilder
	shopKey string
	dir     string
	now     func() time.Time
}

// NewReceiptUseCase construye el generador. Si dir no está vacío cada recibo generado
// se archiva allí como <número>.<ext>.
func NewReceiptUseCase(orders repository.OrderRepository, text *receipt.TextRenderer, pdf ports.ReceiptPDFGenerator, xml ports.ReceiptXMLBuilder, shopKey, dir string) *ReceiptUseCase {
	return &ReceiptUseCase{orders: orders, text: text, pdf: pdf, xml: xml, shopKey: shopKey, dir: dir, now: time.Now}
}

// Receipt genera el recibo del pedido en el formato pedido (text por defecto).
func (uc *ReceiptUseCase) Receipt(ctx context.Context, orderID, format string) (*dto.ReceiptDocument, error) {
	o, err := getOrder(ctx, uc.orders, orderID)
	if err != nil {
		return nil, err
	}
	code, err := receipt.VerificationCode(receipt.VerificationParams{
		OrderNumber:    o.OrderNumber,
		IssuedAt:       o.CreatedAt,
		Subtotal:       o.Subtotal,
		DiscountAmount: o.DiscountAmount,
		Total:          o.TotalAmount,
		PaymentMethod:  o.PaymentMethod,
		ShopKey:        uc.shopKey,
	})
	if err != nil {
		return nil, err
	}

	doc := &dto.ReceiptDocument{VerificationCode: code}
	switch format {
	case "", dto.ReceiptFormatText:
		doc.Filename = o.OrderNumber + ".txt"
		doc.ContentType = "text/plain; charset=utf-8"
		doc.Body = []byte(uc.text.Render(o, code, uc.now()))
	case dto.ReceiptFormatPDF:
		if uc.pdf == nil {
			return nil, fmt.Errorf("%w: generador PDF no configurado", domain.ErrInvalidInput)
		}
		body, err := uc.pdf.GenerateReceipt(o, code)
		if err != nil {
			return nil, fmt.Errorf("recibo pdf: %w", err)
		}
		doc.Filename = o.OrderNumber + ".pdf"
		doc.ContentType = "application/pdf"
		doc.Body = body
	case dto.ReceiptFormatXML:
		if uc.xml == nil {
			return nil, fmt.Errorf("%w: generador XML no configurado", domain.ErrInvalidInput)
		}
		body, digest, err := uc.xml.BuildReceipt(o, code)
		if err != nil {
			return nil, fmt.Errorf("recibo xml: %w", err)
		}
		doc.Filename = o.OrderNumber + ".xml"
		doc.ContentType = "application/xml"
		doc.Body = body
		doc.Digest = digest
	default:
		return nil, fmt.Errorf("%w: formato de recibo %q", domain.ErrInvalidInput, format)
	}

	if uc.dir != "" {
		if err := os.MkdirAll(uc.dir, 0o755); err != nil {
			return nil, fmt.Errorf("recibo: crear directorio: %w", err)
		}
		if err := os.WriteFile(filepath.Join(uc.dir, doc.Filename), doc.Body, 0o644); err != nil {
			return nil, fmt.Errorf("recibo: archivar: %w", err)
		}
	}
	return doc, nil
}
