package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
)

// CartItemRequest línea del carrito tal como llega del cliente. El precio
// no se acepta del cliente; se resuelve del catálogo.
type CartItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
}

// PreviewTotalsRequest carrito para previsualizar totales (sin efectos).
type PreviewTotalsRequest struct {
	Items []CartItemRequest `json:"items"`
}

// PreviewTotalsResponse totales previsualizados.
type PreviewTotalsResponse struct {
	Subtotal              decimal.Decimal `json:"subtotal"`
	Freight               decimal.Decimal `json:"freight"`
	Total                 decimal.Decimal `json:"total"`
	IsFreeShippingApplied bool            `json:"is_free_shipping_applied"`
	IsFreightNegotiated   bool            `json:"is_freight_negotiated"`
}

// CommitSaleRequest entrada del commit de venta.
type CommitSaleRequest struct {
	Items          []CartItemRequest `json:"items"`
	Discount       decimal.Decimal   `json:"discount"`
	DiscountType   string            `json:"discount_type"`
	PaymentMethod  string            `json:"payment_method"`
	DeliveryMethod string            `json:"delivery_method"`
	CustomerID     string            `json:"customer_id"`
}

// SaleItemDTO línea de venta en respuestas.
type SaleItemDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// SaleResponse venta persistida con consecutivo y totales resueltos.
type SaleResponse struct {
	ID             string          `json:"id"`
	SaleNumber     int64           `json:"sale_number"`
	Status         string          `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Freight        decimal.Decimal `json:"freight"`
	Total          decimal.Decimal `json:"total"`
	PaymentMethod  string          `json:"payment_method"`
	DeliveryMethod string          `json:"delivery_method,omitempty"`
	CustomerID     string          `json:"customer_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []SaleItemDTO   `json:"items,omitempty"`
}

// FromSale mapea la entidad venta (y opcionalmente sus líneas) al DTO.
func FromSale(s *entity.Sale, items []*entity.SaleItem) SaleResponse {
	resp := SaleResponse{
		ID:             s.ID,
		SaleNumber:     s.SaleNumber,
		Status:         s.Status,
		Subtotal:       s.Subtotal,
		Discount:       s.Discount,
		Freight:        s.Freight,
		Total:          s.Total,
		PaymentMethod:  s.PaymentMethod,
		DeliveryMethod: s.DeliveryMethod,
		CustomerID:     s.CustomerID,
		CreatedAt:      s.CreatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, SaleItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Discount:    item.Discount,
			Total:       item.Total,
		})
	}
	return resp
}
