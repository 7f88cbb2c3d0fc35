package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yashrajoria/pharmacy-storefront/models"
)

const (
	SellerName    = "Pharmaci Inc."
	SellerAddress = "123 Health St, Wellness City"
)

// Line is one rendered invoice row
type Line struct {
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	Total       decimal.Decimal
}

// View is the rendered invoice. The HTML page and the PDF export draw the same View.
type View struct {
	SellerName    string
	SellerAddress string
	OrderID       string
	BilledTo      string
	Date          time.Time
	Status        string
	Lines         []Line
	Subtotal      decimal.Decimal
	TaxRate       decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}

// NewView lays out an order. Subtotal and total are the backend's TotalPrice.
func NewView(order *models.Order) *View {
	if order == nil {
		return nil
	}
	v := &View{
		SellerName:    SellerName,
		SellerAddress: SellerAddress,
		OrderID:       order.ID,
		BilledTo:      order.UserID,
		Date:          order.CreatedAt,
		Status:        order.Status,
		Lines:         make([]Line, 0, len(order.Items)),
		Subtotal:      order.TotalPrice,
		TaxRate:       decimal.Zero,
		Tax:           decimal.Zero,
		Total:         order.TotalPrice,
	}
	for _, item := range order.Items {
		v.Lines = append(v.Lines, Line{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.LineTotal(),
		})
	}
	return v
}

// FormatMoney renders an amount as dollars with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// FormatDate is the date format used on the invoice.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Jan 2, 2006")
}

// Filename is the download name of the exported PDF.
func Filename(orderID string) string {
	return "invoice-" + orderID + ".pdf"
}
