package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"tableside/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

// storeErr folds driver failures into the error taxonomy: missing rows are
// ErrNotFound, everything else means the store is unreachable.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

func (r *PostgresRepository) CreateRestaurant(ctx context.Context, rest *domain.Restaurant) error {
	err := r.DB.QueryRowContext(ctx,
		"INSERT INTO restaurants (name, table_count) VALUES ($1, $2) RETURNING id, created_at",
		rest.Name, rest.TableCount,
	).Scan(&rest.ID, &rest.CreatedAt)
	return storeErr(err)
}

func (r *PostgresRepository) GetRestaurant(ctx context.Context, restaurantID int) (*domain.Restaurant, error) {
	var rest domain.Restaurant
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, table_count, created_at
		FROM restaurants
		WHERE id = $1`, restaurantID).
		Scan(&rest.ID, &rest.Name, &rest.TableCount, &rest.CreatedAt)
	if err != nil {
		return nil, storeErr(err)
	}
	return &rest, nil
}

func (r *PostgresRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO menu_items (restaurant_id, name, category, price, out_of_stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		item.RestaurantID, item.Name, item.Category, item.Price, item.OutOfStock).
		Scan(&item.ID, &item.CreatedAt)
	return storeErr(err)
}

func (r *PostgresRepository) ListMenu(ctx context.Context, restaurantID int) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, name, COALESCE(category, ''), price, out_of_stock,
		       COALESCE(avg_rating, 0), COALESCE(rating_count, 0), created_at
		FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY category, name`, restaurantID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Category,
			&item.Price, &item.OutOfStock, &item.AvgRating, &item.RatingCount, &item.CreatedAt); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *PostgresRepository) GetMenuItems(ctx context.Context, restaurantID int, menuItemIDs []int) (map[int]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, name, COALESCE(category, ''), price, out_of_stock,
		       COALESCE(avg_rating, 0), COALESCE(rating_count, 0), created_at
		FROM menu_items
		WHERE restaurant_id = $1 AND id = ANY($2)`,
		restaurantID, pq.Array(menuItemIDs))
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	items := make(map[int]domain.MenuItem, len(menuItemIDs))
	for rows.Next() {
		var item domain.MenuItem
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &item.Category,
			&item.Price, &item.OutOfStock, &item.AvgRating, &item.RatingCount, &item.CreatedAt); err != nil {
			continue
		}
		items[item.ID] = item
	}
	return items, nil
}

func (r *PostgresRepository) CreateStaff(ctx context.Context, staff *domain.StaffUser) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO staff_users (restaurant_id, name, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		staff.RestaurantID, staff.Name, staff.Role).
		Scan(&staff.ID, &staff.CreatedAt)
	return storeErr(err)
}

func (r *PostgresRepository) ListStaff(ctx context.Context, restaurantID int) ([]domain.StaffUser, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, restaurant_id, name, role, created_at
		FROM staff_users
		WHERE restaurant_id = $1
		ORDER BY name`, restaurantID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var staff []domain.StaffUser
	for rows.Next() {
		var user domain.StaffUser
		if err := rows.Scan(&user.ID, &user.RestaurantID, &user.Name, &user.Role, &user.CreatedAt); err != nil {
			continue
		}
		staff = append(staff, user)
	}
	return staff, nil
}

func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO orders (restaurant_id, table_id, customer_id, total_amount, status, note)
		VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		order.RestaurantID, order.TableID, order.CustomerID,
		order.TotalAmount, order.Status, order.Note).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return storeErr(err)
	}

	for _, line := range order.Lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, menu_item_id, name, price, quantity, note)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			order.ID, line.MenuItemID, line.Name, line.Price, line.Quantity, line.Note); err != nil {
			return storeErr(err)
		}
	}

	return storeErr(tx.Commit())
}

func (r *PostgresRepository) GetOrder(ctx context.Context, orderID int) (*domain.Order, error) {
	var order domain.Order
	var customerID sql.NullInt64
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, restaurant_id, table_id, customer_id, total_amount, status,
		       COALESCE(note, ''), created_at, updated_at
		FROM orders WHERE id = $1`, orderID).
		Scan(&order.ID, &order.RestaurantID, &order.TableID, &customerID,
			&order.TotalAmount, &order.Status, &order.Note, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, storeErr(err)
	}
	order.CustomerID = int(customerID.Int64)

	lines, err := r.orderLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return &order, nil
}

func (r *PostgresRepository) orderLines(ctx context.Context, orderID int) ([]domain.OrderLine, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT menu_item_id, name, price, quantity, COALESCE(note, '')
		FROM order_lines
		WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.MenuItemID, &line.Name, &line.Price, &line.Quantity, &line.Note); err != nil {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *PostgresRepository) ListByRestaurant(ctx context.Context, restaurantID int, statuses []domain.Status) ([]domain.Order, error) {
	query := `
		SELECT id, restaurant_id, table_id, customer_id, total_amount, status,
		       COALESCE(note, ''), created_at, updated_at
		FROM orders
		WHERE restaurant_id = $1`
	args := []interface{}{restaurantID}
	if len(statuses) > 0 {
		query += " AND status = ANY($2)"
		raw := make([]string, len(statuses))
		for i, s := range statuses {
			raw[i] = string(s)
		}
		args = append(args, pq.Array(raw))
	}
	query += " ORDER BY created_at"

	return r.listOrders(ctx, query, args...)
}

func (r *PostgresRepository) ListByTable(ctx context.Context, restaurantID int, tableID string) ([]domain.Order, error) {
	return r.listOrders(ctx, `
		SELECT id, restaurant_id, table_id, customer_id, total_amount, status,
		       COALESCE(note, ''), created_at, updated_at
		FROM orders
		WHERE restaurant_id = $1 AND table_id = $2
		ORDER BY created_at`, restaurantID, tableID)
}

func (r *PostgresRepository) ListByCustomer(ctx context.Context, customerID int) ([]domain.Order, error) {
	return r.listOrders(ctx, `
		SELECT id, restaurant_id, table_id, customer_id, total_amount, status,
		       COALESCE(note, ''), created_at, updated_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at`, customerID)
}

func (r *PostgresRepository) listOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		var customerID sql.NullInt64
		if err := rows.Scan(&order.ID, &order.RestaurantID, &order.TableID, &customerID,
			&order.TotalAmount, &order.Status, &order.Note, &order.CreatedAt, &order.UpdatedAt); err != nil {
			continue
		}
		order.CustomerID = int(customerID.Int64)
		orders = append(orders, order)
	}
	rows.Close()

	for i := range orders {
		lines, err := r.orderLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

// UpdateStatus applies the transition as a compare-and-swap: the write only
// lands when the persisted status still equals from. Zero rows affected on
// an existing order is a conflict, not success.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID int, from, to domain.Status) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND status = $3`,
		to, orderID, from)
	if err != nil {
		return storeErr(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if rows == 0 {
		var exists bool
		if err := r.DB.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", orderID).Scan(&exists); err != nil {
			return storeErr(err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%w: order %d is no longer %s", domain.ErrConflict, orderID, from)
	}
	return nil
}

// UpsertAndRecompute records one rating keyed by (order, menu item) and
// recomputes the item aggregate from all rating rows before committing, so a
// reader never observes a half-updated pair.
func (r *PostgresRepository) UpsertAndRecompute(ctx context.Context, rating *domain.Rating) (domain.ItemAggregate, error) {
	agg := domain.ItemAggregate{
		MenuItemID:   rating.MenuItemID,
		RestaurantID: rating.RestaurantID,
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return agg, storeErr(err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO ratings (order_id, menu_item_id, restaurant_id, rating, review, customer_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0))
		ON CONFLICT (order_id, menu_item_id)
		DO UPDATE SET rating = EXCLUDED.rating, review = EXCLUDED.review, created_at = CURRENT_TIMESTAMP
		RETURNING id, created_at`,
		rating.OrderID, rating.MenuItemID, rating.RestaurantID,
		rating.Rating, rating.Review, rating.CustomerID).
		Scan(&rating.ID, &rating.CreatedAt); err != nil {
		return agg, storeErr(err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE menu_items
		SET avg_rating = (
			SELECT ROUND(AVG(rating::numeric), 2)
			FROM ratings
			WHERE menu_item_id = $1
		),
		rating_count = (
			SELECT COUNT(*)
			FROM ratings
			WHERE menu_item_id = $1
		)
		WHERE id = $1 AND restaurant_id = $2`,
		rating.MenuItemID, rating.RestaurantID); err != nil {
		return agg, storeErr(err)
	}

	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(avg_rating, 0), COALESCE(rating_count, 0)
		FROM menu_items
		WHERE id = $1 AND restaurant_id = $2`,
		rating.MenuItemID, rating.RestaurantID).
		Scan(&agg.Average, &agg.Count); err != nil {
		return agg, storeErr(err)
	}

	if err := tx.Commit(); err != nil {
		return agg, storeErr(err)
	}
	return agg, nil
}

func (r *PostgresRepository) ListItemRatings(ctx context.Context, restaurantID, menuItemID int) ([]domain.Rating, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, menu_item_id, restaurant_id, rating, COALESCE(review, ''),
		       COALESCE(customer_id, 0), created_at
		FROM ratings
		WHERE menu_item_id = $1 AND restaurant_id = $2
		ORDER BY created_at DESC`, menuItemID, restaurantID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var ratings []domain.Rating
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(&rating.ID, &rating.OrderID, &rating.MenuItemID, &rating.RestaurantID,
			&rating.Rating, &rating.Review, &rating.CustomerID, &rating.CreatedAt); err != nil {
			continue
		}
		ratings = append(ratings, rating)
	}
	return ratings, nil
}

// ItemAggregate reloads the persisted rating pair for one menu item. The
// aggregation consumer uses it to refresh the cache mirror.
func (r *PostgresRepository) ItemAggregate(ctx context.Context, restaurantID, menuItemID int) (domain.ItemAggregate, error) {
	agg := domain.ItemAggregate{
		MenuItemID:   menuItemID,
		RestaurantID: restaurantID,
	}
	err := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(avg_rating, 0), COALESCE(rating_count, 0)
		FROM menu_items
		WHERE id = $1 AND restaurant_id = $2`,
		menuItemID, restaurantID).
		Scan(&agg.Average, &agg.Count)
	if err != nil {
		return agg, storeErr(err)
	}
	return agg, nil
}

func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			table_count INT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id SERIAL PRIMARY KEY,
			restaurant_id INT NOT NULL REFERENCES restaurants(id),
			name TEXT NOT NULL,
			category TEXT,
			price NUMERIC(10,2) NOT NULL,
			out_of_stock BOOLEAN NOT NULL DEFAULT FALSE,
			avg_rating NUMERIC(4,2),
			rating_count INT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS staff_users (
			id SERIAL PRIMARY KEY,
			restaurant_id INT NOT NULL REFERENCES restaurants(id),
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			restaurant_id INT NOT NULL REFERENCES restaurants(id),
			table_id TEXT NOT NULL,
			customer_id INT,
			total_amount NUMERIC(10,2) NOT NULL,
			status TEXT NOT NULL,
			note TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS order_lines (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id),
			menu_item_id INT NOT NULL,
			name TEXT NOT NULL,
			price NUMERIC(10,2) NOT NULL,
			quantity INT NOT NULL,
			note TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id),
			menu_item_id INT NOT NULL,
			restaurant_id INT NOT NULL,
			rating INT NOT NULL,
			review TEXT,
			customer_id INT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (order_id, menu_item_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
