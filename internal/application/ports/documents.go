package ports

import (
	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
)

// ReceiptPDFGenerator genera el recibo de un pedido en PDF.
type ReceiptPDFGenerator interface {
	GenerateReceipt(order *entity.Order, verificationCode string) ([]byte, error)
}

// ReportPDFGenerator genera el resumen de ventas en PDF.
type ReportPDFGenerator interface {
	GenerateSalesReport(report *dto.SalesReportDTO) ([]byte, error)
}

// ReceiptXMLBuilder genera el recibo en XML y devuelve el digest SHA-256 (hex) del documento canónico.
type ReceiptXMLBuilder interface {
	BuildReceipt(order *entity.Order, verificationCode string) (xml []byte, digest string, err error)
}
