package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"kitchenbook/internal/ingredient"
	"kitchenbook/internal/recipe"
	"kitchenbook/internal/supplier"
)

// SQLStore implements Store on top of PostgreSQL or SQLite. Queries are written
// with ? placeholders and rebound for the connected driver.
type SQLStore struct {
	db *sqlx.DB
}

var schema = []struct {
	table string
	ddl   string
}{
	{"suppliers", `
	CREATE TABLE IF NOT EXISTS suppliers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		short_name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		postcode TEXT NOT NULL DEFAULT '',
		account_reference TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		tax_ref_number TEXT NOT NULL DEFAULT '',
		fax_number TEXT NOT NULL DEFAULT '',
		sales_rep TEXT NOT NULL DEFAULT '',
		sales_rep_email TEXT NOT NULL DEFAULT '',
		sales_rep_contact TEXT NOT NULL DEFAULT '',
		email_orders BOOLEAN NOT NULL DEFAULT FALSE,
		min_order_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		delivery_days TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	`},
	{"ingredients", `
	CREATE TABLE IF NOT EXISTS ingredients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		unit TEXT NOT NULL DEFAULT '',
		wastage_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
		supplier_id TEXT NOT NULL DEFAULT '',
		product_code TEXT NOT NULL DEFAULT '',
		pack_size TEXT NOT NULL DEFAULT '',
		order_unit TEXT NOT NULL DEFAULT '',
		tax_percent DOUBLE PRECISION NOT NULL DEFAULT 0,
		par_level DOUBLE PRECISION NOT NULL DEFAULT 0,
		storage_locations TEXT NOT NULL DEFAULT '[]',
		allergens TEXT NOT NULL DEFAULT '[]',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	`},
	{"recipes", `
	CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		course TEXT NOT NULL DEFAULT '',
		cuisine TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		portions INTEGER NOT NULL DEFAULT 1,
		prep_time TEXT NOT NULL DEFAULT '',
		cook_time TEXT NOT NULL DEFAULT '',
		instructions TEXT NOT NULL DEFAULT '[]',
		ingredients TEXT NOT NULL DEFAULT '[]',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	`},
}

// NewSQLStore connects to the database and creates the tables if they do not exist.
func NewSQLStore(driver, dataSourceName string) (*SQLStore, error) {
	db, err := sqlx.Connect(driver, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == DriverSQLite {
		// Every connection to an in-memory SQLite database is a separate database.
		db.SetMaxOpenConns(1)
	}

	for _, t := range schema {
		if _, err := db.Exec(t.ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create %s table: %w", t.table, err)
		}
	}

	return &SQLStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func encodeList(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(data string, v any) error {
	if data == "" {
		return nil
	}
	return json.Unmarshal([]byte(data), v)
}

func likePattern(q string) string {
	return "%" + strings.ToLower(q) + "%"
}

func (s *SQLStore) exec(ctx context.Context, kind, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}

type ingredientRow struct {
	ID               string    `db:"id"`
	Name             string    `db:"name"`
	Category         string    `db:"category"`
	UnitPrice        float64   `db:"unit_price"`
	Unit             string    `db:"unit"`
	WastagePercent   float64   `db:"wastage_percent"`
	SupplierID       string    `db:"supplier_id"`
	ProductCode      string    `db:"product_code"`
	PackSize         string    `db:"pack_size"`
	OrderUnit        string    `db:"order_unit"`
	TaxPercent       float64   `db:"tax_percent"`
	ParLevel         float64   `db:"par_level"`
	StorageLocations string    `db:"storage_locations"`
	Allergens        string    `db:"allergens"`
	Notes            string    `db:"notes"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

const ingredientColumns = "id, name, category, unit_price, unit, wastage_percent, supplier_id, product_code, pack_size, order_unit, tax_percent, par_level, storage_locations, allergens, notes, created_at, updated_at"

func (r ingredientRow) toIngredient() (*ingredient.Ingredient, error) {
	i := &ingredient.Ingredient{
		ID:             r.ID,
		Name:           r.Name,
		Category:       r.Category,
		UnitPrice:      r.UnitPrice,
		Unit:           r.Unit,
		WastagePercent: r.WastagePercent,
		SupplierID:     r.SupplierID,
		ProductCode:    r.ProductCode,
		PackSize:       r.PackSize,
		OrderUnit:      r.OrderUnit,
		TaxPercent:     r.TaxPercent,
		ParLevel:       r.ParLevel,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if err := decodeList(r.StorageLocations, &i.StorageLocations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal storage locations: %w", err)
	}
	if err := decodeList(r.Allergens, &i.Allergens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal allergens: %w", err)
	}
	return i, nil
}

// ListIngredients returns matching ingredients ordered by name.
func (s *SQLStore) ListIngredients(ctx context.Context, filter ingredient.Filter) ([]*ingredient.Ingredient, error) {
	query := "SELECT " + ingredientColumns + " FROM ingredients WHERE 1=1"
	var args []any
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, ingredient.NormalizeCategory(filter.Category))
	}
	if filter.Query != "" {
		query += " AND LOWER(name) LIKE ?"
		args = append(args, likePattern(filter.Query))
	}
	query += " ORDER BY LOWER(name)"

	var rows []ingredientRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	out := make([]*ingredient.Ingredient, 0, len(rows))
	for _, r := range rows {
		i, err := r.toIngredient()
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, nil
}

// GetIngredient retrieves an ingredient by id.
func (s *SQLStore) GetIngredient(ctx context.Context, id string) (*ingredient.Ingredient, error) {
	var r ingredientRow
	err := s.db.GetContext(ctx, &r, s.db.Rebind("SELECT "+ingredientColumns+" FROM ingredients WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("ingredient", id)
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return r.toIngredient()
}

func ingredientArgs(i *ingredient.Ingredient) ([]any, error) {
	locations, err := encodeList(i.StorageLocations)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal storage locations: %w", err)
	}
	allergens, err := encodeList(i.Allergens)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal allergens: %w", err)
	}
	return []any{
		i.Name, i.Category, i.UnitPrice, i.Unit, i.WastagePercent, i.SupplierID, i.ProductCode,
		i.PackSize, i.OrderUnit, i.TaxPercent, i.ParLevel, locations, allergens, i.Notes,
	}, nil
}

// CreateIngredient assigns an id and timestamps and inserts the ingredient.
func (s *SQLStore) CreateIngredient(ctx context.Context, i *ingredient.Ingredient) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	i.CreatedAt = now()
	i.UpdatedAt = i.CreatedAt

	args, err := ingredientArgs(i)
	if err != nil {
		return err
	}
	args = append([]any{i.ID}, args...)
	args = append(args, i.CreatedAt, i.UpdatedAt)

	_, err = s.db.ExecContext(ctx, s.db.Rebind(
		"INSERT INTO ingredients ("+ingredientColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to save ingredient: %w", err)
	}
	return nil
}

// UpdateIngredient overwrites a stored ingredient.
func (s *SQLStore) UpdateIngredient(ctx context.Context, i *ingredient.Ingredient) error {
	i.UpdatedAt = now()

	args, err := ingredientArgs(i)
	if err != nil {
		return err
	}
	args = append(args, i.UpdatedAt, i.ID)

	err = s.exec(ctx, "ingredient", i.ID,
		"UPDATE ingredients SET name = ?, category = ?, unit_price = ?, unit = ?, wastage_percent = ?, supplier_id = ?, product_code = ?, pack_size = ?, order_unit = ?, tax_percent = ?, par_level = ?, storage_locations = ?, allergens = ?, notes = ?, updated_at = ? WHERE id = ?",
		args...,
	)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	return err
}

// DeleteIngredient removes an ingredient.
func (s *SQLStore) DeleteIngredient(ctx context.Context, id string) error {
	err := s.exec(ctx, "ingredient", id, "DELETE FROM ingredients WHERE id = ?", id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	return err
}

type supplierRow struct {
	ID               string    `db:"id"`
	Name             string    `db:"name"`
	ShortName        string    `db:"short_name"`
	Address          string    `db:"address"`
	Postcode         string    `db:"postcode"`
	AccountReference string    `db:"account_reference"`
	Phone            string    `db:"phone"`
	Email            string    `db:"email"`
	TaxRefNumber     string    `db:"tax_ref_number"`
	FaxNumber        string    `db:"fax_number"`
	SalesRep         string    `db:"sales_rep"`
	SalesRepEmail    string    `db:"sales_rep_email"`
	SalesRepContact  string    `db:"sales_rep_contact"`
	EmailOrders      bool      `db:"email_orders"`
	MinOrderValue    float64   `db:"min_order_value"`
	DeliveryDays     string    `db:"delivery_days"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

const supplierColumns = "id, name, short_name, address, postcode, account_reference, phone, email, tax_ref_number, fax_number, sales_rep, sales_rep_email, sales_rep_contact, email_orders, min_order_value, delivery_days, created_at, updated_at"

func (r supplierRow) toSupplier() (*supplier.Supplier, error) {
	sup := &supplier.Supplier{
		ID:               r.ID,
		Name:             r.Name,
		ShortName:        r.ShortName,
		Address:          r.Address,
		Postcode:         r.Postcode,
		AccountReference: r.AccountReference,
		Phone:            r.Phone,
		Email:            r.Email,
		TaxRefNumber:     r.TaxRefNumber,
		FaxNumber:        r.FaxNumber,
		SalesRep:         r.SalesRep,
		SalesRepEmail:    r.SalesRepEmail,
		SalesRepContact:  r.SalesRepContact,
		EmailOrders:      r.EmailOrders,
		MinOrderValue:    r.MinOrderValue,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if err := decodeList(r.DeliveryDays, &sup.DeliveryDays); err != nil {
		return nil, fmt.Errorf("failed to unmarshal delivery days: %w", err)
	}
	return sup, nil
}

// ListSuppliers returns suppliers whose name or short name contains query.
func (s *SQLStore) ListSuppliers(ctx context.Context, query string) ([]*supplier.Supplier, error) {
	q := "SELECT " + supplierColumns + " FROM suppliers"
	var args []any
	if query != "" {
		q += " WHERE LOWER(name) LIKE ? OR LOWER(short_name) LIKE ?"
		args = append(args, likePattern(query), likePattern(query))
	}
	q += " ORDER BY LOWER(name)"

	var rows []supplierRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	out := make([]*supplier.Supplier, 0, len(rows))
	for _, r := range rows {
		sup, err := r.toSupplier()
		if err != nil {
			return nil, err
		}
		out = append(out, sup)
	}
	return out, nil
}

// GetSupplier retrieves a supplier by id.
func (s *SQLStore) GetSupplier(ctx context.Context, id string) (*supplier.Supplier, error) {
	var r supplierRow
	err := s.db.GetContext(ctx, &r, s.db.Rebind("SELECT "+supplierColumns+" FROM suppliers WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("supplier", id)
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return r.toSupplier()
}

func supplierArgs(sup *supplier.Supplier) ([]any, error) {
	days, err := encodeList(sup.DeliveryDays)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal delivery days: %w", err)
	}
	return []any{
		sup.Name, sup.ShortName, sup.Address, sup.Postcode, sup.AccountReference, sup.Phone, sup.Email,
		sup.TaxRefNumber, sup.FaxNumber, sup.SalesRep, sup.SalesRepEmail, sup.SalesRepContact,
		sup.EmailOrders, sup.MinOrderValue, days,
	}, nil
}

// CreateSupplier assigns an id and timestamps and inserts the supplier.
func (s *SQLStore) CreateSupplier(ctx context.Context, sup *supplier.Supplier) error {
	if sup.ID == "" {
		sup.ID = uuid.New().String()
	}
	sup.CreatedAt = now()
	sup.UpdatedAt = sup.CreatedAt

	args, err := supplierArgs(sup)
	if err != nil {
		return err
	}
	args = append([]any{sup.ID}, args...)
	args = append(args, sup.CreatedAt, sup.UpdatedAt)

	_, err = s.db.ExecContext(ctx, s.db.Rebind(
		"INSERT INTO suppliers ("+supplierColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to save supplier: %w", err)
	}
	return nil
}

// UpdateSupplier overwrites a stored supplier.
func (s *SQLStore) UpdateSupplier(ctx context.Context, sup *supplier.Supplier) error {
	sup.UpdatedAt = now()

	args, err := supplierArgs(sup)
	if err != nil {
		return err
	}
	args = append(args, sup.UpdatedAt, sup.ID)

	err = s.exec(ctx, "supplier", sup.ID,
		"UPDATE suppliers SET name = ?, short_name = ?, address = ?, postcode = ?, account_reference = ?, phone = ?, email = ?, tax_ref_number = ?, fax_number = ?, sales_rep = ?, sales_rep_email = ?, sales_rep_contact = ?, email_orders = ?, min_order_value = ?, delivery_days = ?, updated_at = ? WHERE id = ?",
		args...,
	)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update supplier: %w", err)
	}
	return err
}

// DeleteSupplier removes a supplier.
func (s *SQLStore) DeleteSupplier(ctx context.Context, id string) error {
	err := s.exec(ctx, "supplier", id, "DELETE FROM suppliers WHERE id = ?", id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	return err
}

type recipeRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	Course       string    `db:"course"`
	Cuisine      string    `db:"cuisine"`
	Category     string    `db:"category"`
	Portions     int       `db:"portions"`
	PrepTime     string    `db:"prep_time"`
	CookTime     string    `db:"cook_time"`
	Instructions string    `db:"instructions"`
	Ingredients  string    `db:"ingredients"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const recipeColumns = "id, name, description, course, cuisine, category, portions, prep_time, cook_time, instructions, ingredients, created_at, updated_at"

func (r recipeRow) toRecipe() (*recipe.Recipe, error) {
	rec := &recipe.Recipe{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Course:      r.Course,
		Cuisine:     r.Cuisine,
		Category:    r.Category,
		Portions:    r.Portions,
		PrepTime:    r.PrepTime,
		CookTime:    r.CookTime,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if err := decodeList(r.Instructions, &rec.Instructions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal instructions: %w", err)
	}
	if err := decodeList(r.Ingredients, &rec.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
	}
	return rec, nil
}

// ListRecipes returns matching recipes in creation order.
func (s *SQLStore) ListRecipes(ctx context.Context, filter recipe.Filter) ([]*recipe.Recipe, error) {
	query := "SELECT " + recipeColumns + " FROM recipes WHERE 1=1"
	var args []any
	if filter.Course != "" {
		query += " AND LOWER(course) = ?"
		args = append(args, strings.ToLower(filter.Course))
	}
	if filter.Cuisine != "" {
		query += " AND LOWER(cuisine) = ?"
		args = append(args, strings.ToLower(filter.Cuisine))
	}
	query += " ORDER BY created_at, name"

	var rows []recipeRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get recipes: %w", err)
	}

	out := make([]*recipe.Recipe, 0, len(rows))
	for _, r := range rows {
		rec, err := r.toRecipe()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// GetRecipe retrieves a recipe by id.
func (s *SQLStore) GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	var r recipeRow
	err := s.db.GetContext(ctx, &r, s.db.Rebind("SELECT "+recipeColumns+" FROM recipes WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("recipe", id)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return r.toRecipe()
}

func recipeArgs(r *recipe.Recipe) ([]any, error) {
	instructions, err := encodeList(r.Instructions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal instructions: %w", err)
	}
	lines, err := encodeList(r.Ingredients)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ingredients: %w", err)
	}
	return []any{
		r.Name, r.Description, r.Course, r.Cuisine, r.Category, r.Portions, r.PrepTime, r.CookTime,
		instructions, lines,
	}, nil
}

// CreateRecipe assigns an id and timestamps and inserts the recipe.
func (s *SQLStore) CreateRecipe(ctx context.Context, r *recipe.Recipe) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = now()
	r.UpdatedAt = r.CreatedAt

	args, err := recipeArgs(r)
	if err != nil {
		return err
	}
	args = append([]any{r.ID}, args...)
	args = append(args, r.CreatedAt, r.UpdatedAt)

	_, err = s.db.ExecContext(ctx, s.db.Rebind(
		"INSERT INTO recipes ("+recipeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe: %w", err)
	}
	return nil
}

// UpdateRecipe overwrites a stored recipe.
func (s *SQLStore) UpdateRecipe(ctx context.Context, r *recipe.Recipe) error {
	r.UpdatedAt = now()

	args, err := recipeArgs(r)
	if err != nil {
		return err
	}
	args = append(args, r.UpdatedAt, r.ID)

	err = s.exec(ctx, "recipe", r.ID,
		"UPDATE recipes SET name = ?, description = ?, course = ?, cuisine = ?, category = ?, portions = ?, prep_time = ?, cook_time = ?, instructions = ?, ingredients = ?, updated_at = ? WHERE id = ?",
		args...,
	)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	return err
}

// DeleteRecipe removes a recipe.
func (s *SQLStore) DeleteRecipe(ctx context.Context, id string) error {
	err := s.exec(ctx, "recipe", id, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return err
}
