package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/service"
)

// Amounts are rendered as fixed two-decimal strings.

type productResponse struct {
	ID          string          `json:"id"`
	FarmerID    string          `json:"farmerId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       string          `json:"price"`
	Unit        domain.Unit     `json:"unit"`
	Stock       int             `json:"stock"`
	Category    domain.Category `json:"category"`
	ImagePath   string          `json:"imagePath,omitempty"`
	Approved    bool            `json:"approved"`
}

func toProduct(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		FarmerID:    p.FarmerID,
		Name:        p.Name,
		Description: p.Description,
		Price:       domain.Money(p.Price),
		Unit:        p.Unit,
		Stock:       p.Stock,
		Category:    p.Category,
		ImagePath:   p.ImagePath,
		Approved:    p.Approved,
	}
}

func toProducts(ps []domain.Product) []productResponse {
	out := make([]productResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProduct(p))
	}
	return out
}

type lineItemResponse struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	FarmerID    string    `json:"farmerId"`
	Quantity    int       `json:"quantity"`
	Price       string    `json:"price"`
	ItemTotal   string    `json:"itemTotal"`
	Delivered   bool      `json:"delivered"`
	PaidOut     bool      `json:"paidOut"`
	OrderedAt   time.Time `json:"orderedAt"`
}

func toLineItem(li domain.LineItem) lineItemResponse {
	return lineItemResponse{
		ID:          li.ID,
		OrderID:     li.OrderID,
		ProductID:   li.ProductID,
		ProductName: li.ProductName,
		FarmerID:    li.FarmerID,
		Quantity:    li.Quantity,
		Price:       domain.Money(li.Price),
		ItemTotal:   domain.Money(li.Gross()),
		Delivered:   li.Delivered,
		PaidOut:     li.PaidOut,
		OrderedAt:   li.OrderedAt,
	}
}

func toLineItems(items []domain.LineItem) []lineItemResponse {
	out := make([]lineItemResponse, 0, len(items))
	for _, li := range items {
		out = append(out, toLineItem(li))
	}
	return out
}

type shippingBody struct {
	FullName string `json:"fullName"`
	Mobile   string `json:"mobile"`
	Address  string `json:"address"`
	Pincode  string `json:"pincode"`
}

type orderResponse struct {
	ID            string             `json:"id"`
	CreatedAt     time.Time          `json:"createdAt"`
	TotalAmount   string             `json:"totalAmount"`
	Shipping      shippingBody       `json:"shipping"`
	PaymentMethod string             `json:"paymentMethod"`
	Delivered     bool               `json:"delivered"`
	Items         []lineItemResponse `json:"items"`
}

func toOrder(o domain.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		CreatedAt:   o.CreatedAt,
		TotalAmount: domain.Money(o.TotalAmount),
		Shipping: shippingBody{
			FullName: o.Shipping.FullName,
			Mobile:   o.Shipping.Mobile,
			Address:  o.Shipping.Address,
			Pincode:  o.Shipping.Pincode,
		},
		PaymentMethod: o.PaymentMethod,
		Delivered:     o.Delivered,
		Items:         toLineItems(o.Items),
	}
}

type confirmationResponse struct {
	Order            orderResponse `json:"order"`
	DeliveryFee      string        `json:"deliveryFee"`
	GrandTotal       string        `json:"grandTotal"`
	ExpectedDelivery string        `json:"expectedDelivery"`
}

func toConfirmation(c service.Confirmation) confirmationResponse {
	return confirmationResponse{
		Order:            toOrder(c.Order),
		DeliveryFee:      domain.Money(c.DeliveryFee),
		GrandTotal:       domain.Money(c.GrandTotal),
		ExpectedDelivery: c.ExpectedDelivery.Format(time.DateOnly),
	}
}

type cartLineResponse struct {
	Product   productResponse `json:"product"`
	Quantity  int             `json:"quantity"`
	ItemTotal string          `json:"itemTotal"`
}

type cartResponse struct {
	Items      []cartLineResponse `json:"items"`
	Subtotal   string             `json:"subtotal"`
	TotalItems int                `json:"totalItems"`
}

func toCart(v service.CartView) cartResponse {
	out := cartResponse{
		Items:      make([]cartLineResponse, 0, len(v.Items)),
		Subtotal:   domain.Money(v.Subtotal),
		TotalItems: v.TotalItems,
	}
	for _, l := range v.Items {
		out.Items = append(out.Items, cartLineResponse{
			Product:   toProduct(l.Product),
			Quantity:  l.Quantity,
			ItemTotal: domain.Money(l.ItemTotal),
		})
	}
	return out
}

type settlementRowResponse struct {
	lineItemResponse
	Gross      string `json:"gross"`
	Commission string `json:"commission"`
	Net        string `json:"net"`
}

type statementResponse struct {
	PayoutStatus domain.PayoutStatus     `json:"payoutStatus"`
	HasUnsettled bool                    `json:"hasUnsettled"`
	Total        string                  `json:"total"`
	Items        []settlementRowResponse `json:"items"`
}

func toStatement(st service.Statement) statementResponse {
	out := statementResponse{
		PayoutStatus: st.Status,
		HasUnsettled: st.HasUnsettled(),
		Total:        domain.Money(st.Total),
		Items:        make([]settlementRowResponse, 0, st.Len()),
	}
	for row := range st.Rows() {
		out.Items = append(out.Items, settlementRowResponse{
			lineItemResponse: toLineItem(row.Item),
			Gross:            domain.Money(row.Gross),
			Commission:       domain.Money(row.Commission),
			Net:              domain.Money(row.Net),
		})
	}
	return out
}

type receiptResponse struct {
	ID            string    `json:"id"`
	Total         string    `json:"total"`
	ItemCount     int       `json:"itemCount"`
	BankName      string    `json:"bankName"`
	AccountMasked string    `json:"accountNumber"`
	SettledAt     time.Time `json:"settledAt"`
}

func toReceipt(r domain.Receipt) receiptResponse {
	return receiptResponse{
		ID:            r.ID,
		Total:         domain.Money(r.Total),
		ItemCount:     r.ItemCount,
		BankName:      r.BankName,
		AccountMasked: r.AccountMasked,
		SettledAt:     r.SettledAt,
	}
}

type dashboardResponse struct {
	LiveProducts     int               `json:"liveProducts"`
	LowStockProducts []productResponse `json:"lowStockProducts"`
	PendingOrders    int               `json:"pendingOrders"`
	TotalEarnings    string            `json:"totalEarnings"`
}

type productInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    domain.Category `json:"category"`
	Unit        domain.Unit     `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImagePath   string          `json:"imagePath"`
}
