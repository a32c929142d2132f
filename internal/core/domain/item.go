package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a resource owned by exactly one user.
type Item struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	// OwnerID is the creator's user ID. It never changes after creation.
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBeModifiedBy is the ownership-or-admin rule: the owner, or any user whose
// roles grant CapModifyAnyItem, may update or delete the item.
func (i *Item) CanBeModifiedBy(u *User) bool {
	if i == nil || u == nil {
		return false
	}
	if u.ID != "" && i.OwnerID == u.ID {
		return true
	}
	return u.Roles.Can(CapModifyAnyItem)
}

// ValidatePrice rejects negative prices.
func ValidatePrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}
