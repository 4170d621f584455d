package models

import "time"

// Period is a supply window of one supplier.
type Period struct {
	ID              string    `gorm:"column:id;primaryKey" json:"id"`
	Name            string    `gorm:"column:name;not null" json:"name"`
	ConsumerGroupID string    `gorm:"column:consumer_group_id;index" json:"consumerGroupId,omitempty"`
	SupplierID      string    `gorm:"column:supplier_id;index" json:"supplierId,omitempty"`
	Supplier        *Supplier `gorm:"foreignKey:SupplierID;references:ID" json:"supplier,omitempty"`
	SupplierName    string    `gorm:"-" json:"supplierName,omitempty"`
	StartDate       time.Time `gorm:"column:start_date;not null" json:"startDate"`
	EndDate         time.Time `gorm:"column:end_date;not null" json:"endDate"`
	DeliveryDate    time.Time `gorm:"column:delivery_date;not null" json:"deliveryDate"`
	Recurrence      string    `gorm:"column:recurrence" json:"recurrence,omitempty"`
}
