package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Kiko4ko1/magnetsbg-store/app/models"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/database"
	"github.com/Kiko4ko1/magnetsbg-store/pkg/orm"
)

// orderRecord is the database shape of an order. Items are stored as a JSON
// blob: they are written once and read back whole, never queried by field.
type orderRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	Number    string `gorm:"size:40;index"`
	Name      string `gorm:"size:255"`
	Email     string `gorm:"size:255"`
	Phone     string `gorm:"size:40"`
	City      string `gorm:"size:100"`
	Address   string `gorm:"size:255"`
	Note      string `gorm:"type:text"`
	ItemsJSON string `gorm:"type:text"`
	Total     float64
	Method    string `gorm:"size:20"`
	Status    string `gorm:"size:30"`
	CreatedAt time.Time
	Seq       uint `gorm:"autoIncrement;uniqueIndex"` // preserves insertion order across drivers
}

func (orderRecord) TableName() string { return "orders" }

// GormOrderRepository persists orders through the shared GORM handle.
// Selected with ORDER_STORE=db; the store's contract is identical to the
// memory repository.
type GormOrderRepository struct{}

// NewGormOrderRepository migrates the orders table and returns the store.
func NewGormOrderRepository() (*GormOrderRepository, error) {
	if database.DB == nil {
		return nil, errors.New("repositories: database not connected")
	}
	if err := database.DB.AutoMigrate(&orderRecord{}); err != nil {
		return nil, fmt.Errorf("repositories: migrate orders: %w", err)
	}
	return &GormOrderRepository{}, nil
}

func (r *GormOrderRepository) Append(order models.Order) error {
	rec, err := toRecord(order)
	if err != nil {
		return err
	}
	return orm.DB().Create(&rec)
}

func (r *GormOrderRepository) FindByID(id string) (models.Order, error) {
	var rec orderRecord
	err := orm.DB().Model(&orderRecord{}).Where("id = ?", id).First(&rec)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return fromRecord(rec)
}

func (r *GormOrderRepository) ListAll() ([]models.Order, error) {
	var recs []orderRecord
	if err := orm.DB().Model(&orderRecord{}).Order("seq asc").Get(&recs); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(recs))
	for _, rec := range recs {
		o, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func toRecord(o models.Order) (orderRecord, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return orderRecord{}, fmt.Errorf("repositories: encode items: %w", err)
	}
	return orderRecord{
		ID:        o.ID,
		Number:    o.Number,
		Name:      o.Name,
		Email:     o.Email,
		Phone:     o.Phone,
		City:      o.Shipping.City,
		Address:   o.Shipping.Address,
		Note:      o.Shipping.Note,
		ItemsJSON: string(items),
		Total:     o.Total,
		Method:    o.Method,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}, nil
}

func fromRecord(rec orderRecord) (models.Order, error) {
	var items []models.OrderItem
	if rec.ItemsJSON != "" {
		if err := json.Unmarshal([]byte(rec.ItemsJSON), &items); err != nil {
			return models.Order{}, fmt.Errorf("repositories: decode items: %w", err)
		}
	}
	return models.Order{
		ID:     rec.ID,
		Number: rec.Number,
		Name:   rec.Name,
		Email:  rec.Email,
		Phone:  rec.Phone,
		Shipping: models.Shipping{
			City:    rec.City,
			Address: rec.Address,
			Note:    rec.Note,
		},
		Items:     items,
		Total:     rec.Total,
		Method:    rec.Method,
		Status:    rec.Status,
		CreatedAt: rec.CreatedAt,
	}, nil
}
