// Package pos contiene los casos de uso del punto de venta: cotización, cobro, ciclo de vida
// del pedido y recibos.
package pos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cafecraft/internal/application/audit"
	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/application/inventory"
	"github.com/jhoicas/cafecraft/internal/application/ports"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
	"github.com/jhoicas/cafecraft/internal/domain/sales"
)

// Actor usuario autenticado que opera la caja.
type Actor struct {
	ID   string
	Role string
}

// UseCase cobro y gestión de pedidos.
type UseCase struct {
	repos repository.Set
	tx    ports.TxRunner
	loc   *time.Location
	now   func() time.Time
}

// NewUseCase construye el caso de uso. loc es la zona del número de pedido y de los filtros por fecha.
func NewUseCase(repos repository.Set, tx ports.TxRunner, loc *time.Location) *UseCase {
	if loc == nil {
		loc = time.Local
	}
	return &UseCase{repos: repos, tx: tx, loc: loc, now: time.Now}
}

// Quote calcula los totales del carrito sin persistir nada.
func (uc *UseCase) Quote(ctx context.Context, in dto.QuoteRequest) (*dto.QuoteResponse, error) {
	lines, err := resolveCart(ctx, uc.repos.Products, in.Items)
	if err != nil {
		return nil, err
	}
	totals, err := sales.ComputeTotals(lines, in.DiscountPercent)
	if err != nil {
		return nil, err
	}
	out := &dto.QuoteResponse{
		Lines:           make([]dto.QuoteLine, 0, len(lines)),
		Subtotal:        totals.Subtotal,
		DiscountPercent: totals.DiscountPercent,
		DiscountAmount:  totals.DiscountAmount,
		Total:           totals.Total,
	}
	for _, l := range lines {
		out.Lines = append(out.Lines, dto.QuoteLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal().Round(2),
		})
	}
	return out, nil
}

// Checkout cobra el carrito en una sola transacción: valida, calcula totales y pago, descuenta
// ingredientes (solo pedidos completados), guarda pedido, líneas y movimientos de venta.
// Si algún ingrediente no alcanza se revierte todo con ErrInsufficientStock.
func (uc *UseCase) Checkout(ctx context.Context, actor Actor, in dto.CheckoutRequest) (*dto.OrderResponse, error) {
	var order *entity.Order
	err := uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		lines, err := resolveCart(ctx, r.Products, in.Items)
		if err != nil {
			return err
		}
		totals, err := sales.ComputeTotals(lines, in.DiscountPercent)
		if err != nil {
			return err
		}
		status, change, err := sales.SettlePayment(sales.Payment{
			Method:    in.PaymentMethod,
			Tendered:  in.AmountTendered,
			Reference: in.PaymentReference,
			Pending:   in.Pending,
		}, totals.Total)
		if err != nil {
			return err
		}
		cashier, err := r.Users.GetByID(ctx, actor.ID)
		if err != nil {
			return err
		}
		if cashier == nil {
			return domain.ErrUserNotFound
		}

		now := uc.now().UTC()
		order = &entity.Order{
			ID:              uuid.New().String(),
			OrderNumber:     sales.OrderNumber(now.In(uc.loc), uuid.New().String()[:4]),
			UserID:          cashier.ID,
			CashierName:     displayName(cashier),
			CustomerName:    strings.TrimSpace(in.CustomerName),
			Subtotal:        totals.Subtotal,
			DiscountPercent: totals.DiscountPercent,
			DiscountAmount:  totals.DiscountAmount,
			TotalAmount:     totals.Total,
			PaymentMethod:   in.PaymentMethod,
			Status:          status,
			CreatedAt:       now,
			Items:           make([]entity.OrderItem, 0, len(lines)),
		}
		if in.PaymentMethod == entity.PaymentCash {
			order.AmountTendered = in.AmountTendered.Round(2)
			order.ChangeDue = change
		} else {
			order.PaymentReference = strings.TrimSpace(in.PaymentReference)
		}
		for _, l := range lines {
			order.Items = append(order.Items, entity.OrderItem{
				ID:          uuid.New().String(),
				OrderID:     order.ID,
				ProductID:   l.ProductID,
				ProductName: l.Name,
				Category:    l.Category,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				UnitCost:    l.UnitCost,
				Subtotal:    l.Subtotal().Round(2),
				CreatedAt:   now,
			})
		}
		if status == entity.OrderStatusCompleted {
			order.CompletedAt = &now
			if err := deductStock(ctx, r, order, now); err != nil {
				return err
			}
		}
		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		if status == entity.OrderStatusCompleted {
			if err := logSales(ctx, r, order, now); err != nil {
				return err
			}
		}
		return audit.Record(ctx, r.Audit, actor.ID, entity.AuditOrderCreate, "orders", order.ID, nil, map[string]any{
			"order_number": order.OrderNumber,
			"total":        order.TotalAmount,
			"status":       order.Status,
			"payment":      order.PaymentMethod,
		})
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// resolveCart valida el carrito contra el menú. Líneas repetidas del mismo producto se suman.
func resolveCart(ctx context.Context, products repository.ProductRepository, items []dto.CartItem) ([]sales.Line, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	index := make(map[string]int, len(items))
	lines := make([]sales.Line, 0, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cada línea necesita producto y cantidad > 0", domain.ErrInvalidInput)
		}
		if i, ok := index[it.ProductID]; ok {
			lines[i].Quantity += it.Quantity
			continue
		}
		p, err := products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		if !p.IsActive {
			return nil, fmt.Errorf("%w: el producto %s no está disponible", domain.ErrInvalidInput, p.Name)
		}
		index[p.ID] = len(lines)
		lines = append(lines, sales.Line{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
			UnitCost:  p.Cost,
		})
	}
	return lines, nil
}

func deductStock(ctx context.Context, r repository.Set, o *entity.Order, at time.Time) error {
	for _, it := range o.Items {
		err := inventory.DeductForSaleInTx(ctx, r, inventory.SaleMovement{
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			UserID:      o.UserID,
			At:          at,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// logSales un movimiento de venta por línea de producto.
func logSales(ctx context.Context, r repository.Set, o *entity.Order, at time.Time) error {
	note := "Order " + o.OrderNumber
	if o.CustomerName != "" {
		note += " - " + o.CustomerName
	}
	for _, it := range o.Items {
		err := r.Transactions.Create(ctx, &entity.InventoryTransaction{
			ID:          uuid.New().String(),
			Type:        entity.TxTypeSale,
			ProductID:   it.ProductID,
			OrderID:     o.ID,
			Quantity:    decimalQty(it.Quantity),
			UnitPrice:   it.UnitPrice,
			TotalAmount: it.Subtotal,
			UserID:      o.UserID,
			Notes:       note,
			CreatedAt:   at,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func displayName(u *entity.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
