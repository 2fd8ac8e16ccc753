package models

import "time"

// Product is a farmer's listing. Name/price/unit are snapshotted into carts
// and orders at add/creation time; later edits never rewrite those copies.
type Product struct {
	ProductID   string    `json:"_id" bson:"productid"`
	FarmerID    string    `json:"farmerId" bson:"farmerid"`
	Name        string    `json:"name" bson:"name"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Unit        string    `json:"unit" bson:"unit"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	Upcoming    bool      `json:"upcoming" bson:"upcoming"`
	HarvestDate string    `json:"harvestDate,omitempty" bson:"harvestdate,omitempty"`
	ImagePath   string    `json:"imagePath,omitempty" bson:"imagepath,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}
