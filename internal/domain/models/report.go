package models

import "time"

// ArticleStatistics aggregates an article collection. Every value is zero on
// an empty collection.
type ArticleStatistics struct {
	TotalArticles        int     `bson:"total_articles" json:"totalArticles"`
	AveragePurchasePrice float64 `bson:"average_purchase_price" json:"averagePurchasePrice"`
	AverageSellingPrice  float64 `bson:"average_selling_price" json:"averageSellingPrice"`
	AverageProfitMargin  float64 `bson:"average_profit_margin" json:"averageProfitMargin"`
	LowStockCount        int     `bson:"low_stock_count" json:"lowStockCount"`
	TotalInventoryValue  float64 `bson:"total_inventory_value" json:"totalInventoryValue"`
}

// ClientStatistics aggregates a client collection.
type ClientStatistics struct {
	TotalClients int     `bson:"total_clients" json:"totalClients"`
	TotalEtat    float64 `bson:"total_etat" json:"totalEtat"`
	AverageEtat  float64 `bson:"average_etat" json:"averageEtat"`
}

// InventorySnapshot is the periodic report stored in MongoDB.
type InventorySnapshot struct {
	Date      time.Time         `bson:"date" json:"date"`
	Articles  ArticleStatistics `bson:"articles" json:"articles"`
	Clients   ClientStatistics  `bson:"clients" json:"clients"`
	CreatedAt time.Time         `bson:"created_at" json:"createdAt"`
}
