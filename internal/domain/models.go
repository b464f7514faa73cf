package domain

import "time"

type Restaurant struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	TableCount int       `json:"table_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// StaffUser is a kitchen or floor account. RestaurantID is a lookup
// back-reference to the employing restaurant, not an ownership edge.
type StaffUser struct {
	ID           int       `json:"id"`
	RestaurantID int       `json:"restaurant_id"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type MenuItem struct {
	ID           int       `json:"id"`
	RestaurantID int       `json:"restaurant_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	OutOfStock   bool      `json:"out_of_stock"`
	AvgRating    float64   `json:"avg_rating"`
	RatingCount  int       `json:"rating_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type Order struct {
	ID           int         `json:"id"`
	RestaurantID int         `json:"restaurant_id"`
	TableID      string      `json:"table_id"`
	CustomerID   int         `json:"customer_id,omitempty"`
	Lines        []OrderLine `json:"lines"`
	TotalAmount  float64     `json:"total_amount"`
	Status       Status      `json:"status"`
	Note         string      `json:"note,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// OrderLine snapshots the menu item name and price at order time. Later menu
// edits never alter an existing order.
type OrderLine struct {
	MenuItemID int     `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Note       string  `json:"note,omitempty"`
}

// LineTotal is the amount an order must carry: the sum of its line snapshots,
// computed once at creation.
func (o *Order) LineTotal() float64 {
	total := 0.0
	for _, line := range o.Lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

type Rating struct {
	ID           int       `json:"id"`
	OrderID      int       `json:"order_id"`
	MenuItemID   int       `json:"menu_item_id"`
	RestaurantID int       `json:"restaurant_id"`
	Rating       int       `json:"rating"`
	Review       string    `json:"review,omitempty"`
	CustomerID   int       `json:"customer_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ItemAggregate is the derived rating pair carried by a menu item. It is
// recomputed from all rating rows, never incremented.
type ItemAggregate struct {
	MenuItemID   int     `json:"menu_item_id"`
	RestaurantID int     `json:"restaurant_id"`
	Average      float64 `json:"average"`
	Count        int     `json:"count"`
}

// TableSession is the ephemeral binding of one scanning device to a
// (restaurant, table) pair. It is never persisted.
type TableSession struct {
	RestaurantID   int        `json:"restaurant_id"`
	RestaurantName string     `json:"restaurant_name"`
	TableID        string     `json:"table_id"`
	Menu           []MenuItem `json:"menu"`
}

// QRPayload is the JSON object embedded in a table QR code. Anything beyond
// the two ids (embedded menu snapshots included) is advisory and ignored.
type QRPayload struct {
	RestaurantID int    `json:"restaurant_id"`
	TableID      string `json:"table_id"`
}

type RatingEvent struct {
	Type         string    `json:"type"`
	MenuItemID   int       `json:"menu_item_id"`
	RestaurantID int       `json:"restaurant_id"`
	OrderID      int       `json:"order_id"`
	Rating       int       `json:"rating"`
	Timestamp    time.Time `json:"timestamp"`
}

const EventRatingRecorded = "rating_recorded"
