package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxAmount is the largest magnitude a decimal(12,2) column holds.
var MaxAmount = decimal.New(999999999999, -2)

// FitsAmountColumn reports whether v can be stored in a decimal(12,2) column.
func FitsAmountColumn(v decimal.Decimal) bool {
	return v.Round(2).Abs().LessThanOrEqual(MaxAmount)
}

// TransactionKind is BUY or SELL.
type TransactionKind string

const (
	KindBuy  TransactionKind = "BUY"
	KindSell TransactionKind = "SELL"
)

func (k TransactionKind) Valid() bool {
	return k == KindBuy || k == KindSell
}

// Transaction is an immutable buy/sell event against a holding.
type Transaction struct {
	TxID        uuid.UUID       `gorm:"column:tx_id;type:uuid;primaryKey" json:"tx_id"`
	HoldingID   uuid.UUID       `gorm:"column:holding_id;type:uuid;not null;index" json:"holding_id"`
	Kind        TransactionKind `gorm:"column:kind;type:varchar(10);not null" json:"kind"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:decimal(12,2);not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	Date        datatypes.Date  `gorm:"column:date;not null" json:"date"`
	CreatedByID uuid.UUID       `gorm:"column:created_by;type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time       `gorm:"column:created_at;index" json:"created_at"`

	Holding *Holding `gorm:"foreignKey:HoldingID;references:HoldingID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TxID == uuid.Nil {
		t.TxID = uuid.New()
	}
	return nil
}
