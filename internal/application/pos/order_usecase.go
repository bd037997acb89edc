package pos

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafecraft/internal/application/audit"
	"github.com/jhoicas/cafecraft/internal/application/dto"
	"github.com/jhoicas/cafecraft/internal/application/inventory"
	"github.com/jhoicas/cafecraft/internal/domain"
	"github.com/jhoicas/cafecraft/internal/domain/access"
	"github.com/jhoicas/cafecraft/internal/domain/entity"
	"github.com/jhoicas/cafecraft/internal/domain/repository"
	"github.com/jhoicas/cafecraft/internal/domain/sales"
)

// Complete confirma un pedido pendiente (pago gcash/transferencia verificado) y descuenta stock.
func (uc *UseCase) Complete(ctx context.Context, actor Actor, id string) (*dto.OrderResponse, error) {
	var order *entity.Order
	err := uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		var err error
		if order, err = getOrder(ctx, r.Orders, id); err != nil {
			return err
		}
		if !sales.CanTransition(order.Status, entity.OrderStatusCompleted) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidStatus, order.Status, entity.OrderStatusCompleted)
		}
		now := uc.now().UTC()
		if err := deductStock(ctx, r, order, now); err != nil {
			return err
		}
		if err := logSales(ctx, r, order, now); err != nil {
			return err
		}
		order.Status = entity.OrderStatusCompleted
		order.CompletedAt = &now
		if err := r.Orders.UpdateStatus(ctx, order); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, actor.ID, entity.AuditOrderComplete, "orders", order.ID,
			map[string]string{"status": entity.OrderStatusPending}, map[string]string{"status": order.Status})
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// Cancel anula un pedido. Anular un pedido completado requiere rol owner/admin/manager
// y devuelve los ingredientes al stock con un ajuste por cada uno.
func (uc *UseCase) Cancel(ctx context.Context, actor Actor, id, reason string) (*dto.OrderResponse, error) {
	var order *entity.Order
	err := uc.tx.Run(ctx, func(ctx context.Context, r repository.Set) error {
		var err error
		if order, err = getOrder(ctx, r.Orders, id); err != nil {
			return err
		}
		if !sales.CanTransition(order.Status, entity.OrderStatusCancelled) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidStatus, order.Status, entity.OrderStatusCancelled)
		}
		prev := order.Status
		now := uc.now().UTC()
		if prev == entity.OrderStatusCompleted {
			// Rol vigente en la DB, no el del token.
			u, err := r.Users.GetByID(ctx, actor.ID)
			if err != nil {
				return err
			}
			if u == nil || !u.IsActive || !access.IsPrivileged(u.Role) {
				return fmt.Errorf("%w: solo owner, admin o manager pueden anular ventas completadas", domain.ErrForbidden)
			}
			err = inventory.RestoreOrderInTx(ctx, r, inventory.SaleMovement{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				UserID:      actor.ID,
				At:          now,
			})
			if err != nil {
				return err
			}
		}
		order.Status = entity.OrderStatusCancelled
		order.CancelledAt = &now
		if err := r.Orders.UpdateStatus(ctx, order); err != nil {
			return err
		}
		return audit.Record(ctx, r.Audit, actor.ID, entity.AuditOrderCancel, "orders", order.ID,
			map[string]string{"status": prev},
			map[string]string{"status": order.Status, "reason": strings.TrimSpace(reason)})
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// Get pedido con sus líneas.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := getOrder(ctx, uc.repos.Orders, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// List pedidos recientes (por defecto los últimos 10), con filtro opcional por estado y fechas.
func (uc *UseCase) List(ctx context.Context, q dto.OrderQuery) ([]*dto.OrderResponse, error) {
	f := repository.OrderFilter{Status: q.Status, Limit: q.Limit, WithItems: true}
	if f.Limit <= 0 {
		f.Limit = dto.DefaultListLimit
	}
	if q.Start != "" || q.End != "" {
		p, err := dto.DateRange{Start: q.Start, End: q.End}.Resolve(uc.loc, uc.now())
		if err != nil {
			return nil, err
		}
		f.From, f.To = &p.From, &p.To
	}
	orders, err := uc.repos.Orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out, nil
}

func getOrder(ctx context.Context, repo repository.OrderRepository, id string) (*entity.Order, error) {
	o, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: pedido %s", domain.ErrNotFound, id)
	}
	return o, nil
}

func decimalQty(q int) decimal.Decimal { return decimal.NewFromInt(int64(q)) }

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		UserID:           o.UserID,
		CashierName:      o.CashierName,
		CustomerName:     o.CustomerName,
		Subtotal:         o.Subtotal,
		DiscountPercent:  o.DiscountPercent,
		DiscountAmount:   o.DiscountAmount,
		TotalAmount:      o.TotalAmount,
		AmountTendered:   o.AmountTendered,
		ChangeDue:        o.ChangeDue,
		PaymentMethod:    o.PaymentMethod,
		PaymentReference: o.PaymentReference,
		Status:           o.Status,
		ItemCount:        o.ItemCount(),
		CreatedAt:        o.CreatedAt,
		CompletedAt:      o.CompletedAt,
		CancelledAt:      o.CancelledAt,
		Items:            make([]dto.OrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Category:    it.Category,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}
