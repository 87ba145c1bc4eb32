package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleConsumer Role = "consumer"
	RoleFarmer   Role = "farmer"
	RoleAdmin    Role = "admin"
)

// Actor is the authenticated caller, resolved once from the access token.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) Is(role Role) bool { return a.ID != "" && a.Role == role }

type PayoutStatus string

const (
	PayoutNone      PayoutStatus = "none"
	PayoutRequested PayoutStatus = "requested"
	PayoutApproved  PayoutStatus = "approved"
)

func (s PayoutStatus) Valid() bool {
	switch s {
	case PayoutNone, PayoutRequested, PayoutApproved:
		return true
	}
	return false
}

// User is an account of any role. Farmer-only fields are empty for other roles.
type User struct {
	ID           string       `json:"id"`
	Role         Role         `json:"role"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	ContactNo    string       `json:"contactNo"`
	PasswordHash string       `json:"-"`
	KisanID      string       `json:"kisanId,omitempty"`
	Pincode      string       `json:"pincode,omitempty"`
	VillageName  string       `json:"villageName,omitempty"`
	PayoutStatus PayoutStatus `json:"payoutStatus,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type Category string

const (
	CategoryVegetables Category = "vegetables"
	CategoryFruits     Category = "fruits"
	CategoryDairy      Category = "dairy"
	CategoryGrains     Category = "grains"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryVegetables, CategoryFruits, CategoryDairy, CategoryGrains:
		return true
	}
	return false
}

type Unit string

const (
	UnitKg    Unit = "kg"
	UnitDozen Unit = "dozen"
	UnitPiece Unit = "piece"
	UnitLitre Unit = "litre"
	UnitBunch Unit = "bunch"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitKg, UnitDozen, UnitPiece, UnitLitre, UnitBunch:
		return true
	}
	return false
}

type Product struct {
	ID          string
	FarmerID    string
	Name        string
	Description string
	Price       decimal.Decimal
	Unit        Unit
	Stock       int
	Category    Category
	ImagePath   string
	Approved    bool
}

// Available reports whether consumers can see the product in the catalog.
func (p Product) Available() bool {
	return p.Stock > 0 && p.Price.IsPositive()
}

type Shipping struct {
	FullName string
	Mobile   string
	Address  string
	Pincode  string
}

const DefaultPaymentMethod = "Cash On Delivery"

// Order is immutable after creation except for Delivered, which only goes false to true.
type Order struct {
	ID            string
	ConsumerID    string
	CreatedAt     time.Time
	TotalAmount   decimal.Decimal
	Shipping      Shipping
	PaymentMethod string
	Delivered     bool
	Items         []LineItem
}

// LineItem snapshots what was charged. OrderedAt and Delivered mirror the owning order
// so settlement queries never need a join.
type LineItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	FarmerID    string
	Quantity    int
	Price       decimal.Decimal
	PaidOut     bool
	OrderedAt   time.Time
	Delivered   bool
}

func (li LineItem) Gross() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type BankDetails struct {
	BankName      string
	AccountHolder string
	AccountNumber string
	IFSCCode      string
}

// Receipt records one settled payout cycle.
type Receipt struct {
	ID            string
	FarmerID      string
	Total         decimal.Decimal
	ItemCount     int
	LineItemIDs   []string
	BankName      string
	AccountMasked string
	SettledAt     time.Time
}
