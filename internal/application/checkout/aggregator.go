package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/Act962/erp-limas-sub000/internal/domain"
	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
)

var oneHundred = decimal.NewFromInt(100)

// CartItem es una línea del carrito tal como llega al commit. El precio
// unitario NO viene del cliente: se resuelve del catálogo al armar la venta.
type CartItem struct {
	ProductID string
	Quantity  decimal.Decimal
	Discount  decimal.Decimal // descuento por línea, opcional
}

// OrderLine es una línea ya resuelta contra el catálogo, en el orden de
// inserción del carrito (la auditoría y la vista dependen de ese orden).
type OrderLine struct {
	Product   *entity.Product
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Total     decimal.Decimal
}

// SaleBuild es el resultado de armar la venta: líneas ordenadas y totales.
// Invariantes: Subtotal = Σ(qty*precio - desc línea);
// Total = max(0, Subtotal - DiscountAmount + Freight).
type SaleBuild struct {
	Lines          []OrderLine
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Freight        decimal.Decimal
	Total          decimal.Decimal
	TotalWeight    decimal.Decimal
}

// buildLines resuelve cada ítem del carrito contra el catálogo y acumula
// subtotal y peso. Hace el pre-chequeo advisory de stock: feedback rápido
// al usuario, pero el chequeo autoritativo ocurre con la fila bloqueada
// dentro de la transacción del commit.
func buildLines(products map[string]*entity.Product, items []CartItem) ([]OrderLine, decimal.Decimal, decimal.Decimal, error) {
	if len(items) == 0 {
		return nil, decimal.Zero, decimal.Zero, &domain.ValidationError{Field: "items", Reason: "el carrito está vacío"}
	}
	lines := make([]OrderLine, 0, len(items))
	subtotal := decimal.Zero
	weight := decimal.Zero
	for _, item := range items {
		if !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, decimal.Zero, decimal.Zero, &domain.ValidationError{Field: "quantity", Reason: "la cantidad debe ser mayor que cero"}
		}
		product, ok := products[item.ProductID]
		if !ok || product == nil {
			return nil, decimal.Zero, decimal.Zero, &domain.NotFoundError{Entity: "product", ID: item.ProductID}
		}
		// Pre-chequeo advisory contra el stock conocido.
		if product.TrackStock && !product.AllowNegative && item.Quantity.GreaterThan(product.CurrentStock) {
			return nil, decimal.Zero, decimal.Zero, &domain.InsufficientStockError{
				ProductID: product.ID,
				Requested: item.Quantity,
				Available: product.CurrentStock,
			}
		}
		lineSubtotal := item.Quantity.Mul(product.Price)
		lineDiscount := clamp(item.Discount, decimal.Zero, lineSubtotal)
		line := OrderLine{
			Product:   product,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Discount:  lineDiscount,
			Total:     lineSubtotal.Sub(lineDiscount),
		}
		lines = append(lines, line)
		subtotal = subtotal.Add(line.Total)
		weight = weight.Add(item.Quantity.Mul(product.Weight))
	}
	return lines, subtotal, weight, nil
}

// BuildSale arma las líneas de la venta y resuelve el descuento global.
// PERCENT se recorta a [0,100]; VALUE se recorta a [0, subtotal+flete].
func BuildSale(products map[string]*entity.Product, items []CartItem, discount decimal.Decimal, discountType string, freight decimal.Decimal) (*SaleBuild, error) {
	lines, subtotal, weight, err := buildLines(products, items)
	if err != nil {
		return nil, err
	}
	return settleTotals(lines, subtotal, weight, discount, discountType, freight)
}

// settleTotals aplica el descuento global sobre líneas ya resueltas.
func settleTotals(lines []OrderLine, subtotal, weight, discount decimal.Decimal, discountType string, freight decimal.Decimal) (*SaleBuild, error) {
	var discountAmount decimal.Decimal
	switch discountType {
	case entity.DiscountTypePercent:
		pct := clamp(discount, decimal.Zero, oneHundred)
		discountAmount = subtotal.Mul(pct).Div(oneHundred)
	case entity.DiscountTypeValue:
		discountAmount = clamp(discount, decimal.Zero, subtotal.Add(freight))
	case "":
		discountAmount = decimal.Zero
	default:
		return nil, &domain.ValidationError{Field: "discount_type", Reason: "tipo de descuento desconocido"}
	}

	total := subtotal.Sub(discountAmount).Add(freight)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return &SaleBuild{
		Lines:          lines,
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Freight:        freight,
		Total:          total,
		TotalWeight:    weight,
	}, nil
}

func clamp(v, min, max decimal.Decimal) decimal.Decimal {
	if v.LessThan(min) {
		return min
	}
	if v.GreaterThan(max) {
		return max
	}
	return v
}
