package inventory

import (
	"time"

	"concierge/internal/models"
)

// DefaultItems returns the starter stock used when no inventory is persisted
func DefaultItems() []models.InventoryLine {
	return []models.InventoryLine{
		{Name: "Milk", Quantity: 1, Unit: "gallon", ExpiryDate: models.NewDate(2025, time.July, 25), Category: models.CategoryDairy},
		{Name: "Eggs", Quantity: 8, Unit: "pieces", ExpiryDate: models.NewDate(2025, time.July, 30), Category: models.CategoryDairy},
		{Name: "Chicken Breast", Quantity: 2, Unit: "lbs", ExpiryDate: models.NewDate(2025, time.July, 22), Category: models.CategoryMeat},
		{Name: "Broccoli", Quantity: 1, Unit: "head", ExpiryDate: models.NewDate(2025, time.July, 21), Category: models.CategoryVegetable},
		{Name: "Carrots", Quantity: 5, Unit: "pieces", ExpiryDate: models.NewDate(2025, time.July, 28), Category: models.CategoryVegetable},
		{Name: "Bread", Quantity: 1, Unit: "loaf", ExpiryDate: models.NewDate(2025, time.July, 20), Category: models.CategoryGrain},
		{Name: "Cheese", Quantity: 8, Unit: "oz", ExpiryDate: models.NewDate(2025, time.August, 1), Category: models.CategoryDairy},
		{Name: "Tomatoes", Quantity: 3, Unit: "pieces", ExpiryDate: models.NewDate(2025, time.July, 23), Category: models.CategoryVegetable},
		{Name: "Onion", Quantity: 2, Unit: "pieces", ExpiryDate: models.NewDate(2025, time.August, 5), Category: models.CategoryVegetable},
		{Name: "Rice", Quantity: 2, Unit: "cups", ExpiryDate: models.NewDate(2026, time.January, 1), Category: models.CategoryGrain},
	}
}
