package models

import "time"

// MarketPrice is one recorded wholesale/retail price point.
type MarketPrice struct {
	ProductName string    `json:"productName" bson:"productname"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Unit        string    `json:"unit" bson:"unit"`
	Price       float64   `json:"price" bson:"price"`
	Source      string    `json:"source,omitempty" bson:"source,omitempty"`
	RecordedAt  time.Time `json:"recordedAt" bson:"recorded_at"`
}

// IndiaPrice is one normalized AGMARKNET mandi record.
type IndiaPrice struct {
	Commodity  string `json:"commodity"`
	State      string `json:"state"`
	District   string `json:"district,omitempty"`
	Market     string `json:"market"`
	Variety    string `json:"variety,omitempty"`
	MinPrice   string `json:"minPrice"`
	MaxPrice   string `json:"maxPrice"`
	ModalPrice string `json:"modalPrice"`
	Date       string `json:"date,omitempty"`
}
