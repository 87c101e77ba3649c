package pricelist

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitchenbook/internal/ingredient"
	"kitchenbook/internal/store"
	"kitchenbook/internal/supplier"
)

func TestBuild(t *testing.T) {
	ings := []*ingredient.Ingredient{
		{ID: "1", Name: "Sea Bass", Category: "FISH", UnitPrice: 161, Unit: "kg", WastagePercent: 60, SupplierID: "s1"},
		{ID: "2", Name: "butter", Category: "Dairy", UnitPrice: 25, Unit: "kg", SupplierID: "s2"},
		{ID: "3", Name: "Anchovy", Category: "FISH", UnitPrice: 90, Unit: "kg", SupplierID: "s1"},
		{ID: "4", Name: "Saffron", Category: "Exotic", UnitPrice: 12000, Unit: "kg"},
		{ID: "5", Name: "Wagyu", Category: "BEEF", UnitPrice: 415, Unit: "kg", WastagePercent: 15, SupplierID: "s1"},
	}
	suppliers := []*supplier.Supplier{{ID: "s1", Name: "Admiral"}, {ID: "s2", Name: "AE"}}

	sections := Build(ings, suppliers, "")
	require.Len(t, sections, 4)
	assert.Equal(t, "BEEF", sections[0].Category)
	assert.Equal(t, "DAIRY & EGGS", sections[1].Category)
	assert.Equal(t, "FISH", sections[2].Category)
	assert.Equal(t, "EXOTIC", sections[3].Category, "unknown categories sort last")

	fish := sections[2].Rows
	require.Len(t, fish, 2)
	assert.Equal(t, "Anchovy", fish[0].Name)
	assert.Equal(t, "Admiral", fish[1].Supplier)
	assert.InDelta(t, 402.5, fish[1].TrueCost, 1e-9)

	only := Build(ings, suppliers, "s2")
	require.Len(t, only, 1)
	assert.Equal(t, "butter", only[0].Rows[0].Name)

	assert.Empty(t, Build(nil, nil, ""))
}

func TestParseCSV(t *testing.T) {
	input := strings.Join([]string{
		"Code,Item,Price,Unit,Wastage,Category",
		"FS-01,Sea Bass,161.00,KG,60%,Fish",
		`SH-02,Lobster,"AED 1,235.50",KG,,Shellfish`,
		",,abc,KG,,",
		"BT-03,Butter,-2,KG,,Dairy",
		"AV-04,Avocado,35,KG,150,Fruit",
		"",
		"OL-05,Olive Oil,22,L,0,Oil",
	}, "\n")

	entries, rowErrors, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, "Sea Bass", entries[0].Name)
	assert.Equal(t, "FS-01", entries[0].ProductCode)
	require.NotNil(t, entries[0].WastagePercent)
	assert.Equal(t, 60.0, *entries[0].WastagePercent)
	assert.Equal(t, 1235.5, entries[1].UnitPrice)
	assert.Nil(t, entries[1].WastagePercent)
	assert.Equal(t, "Olive Oil", entries[2].Name)

	require.Len(t, rowErrors, 3)
	assert.Equal(t, 4, rowErrors[0].Line)
	assert.Equal(t, 5, rowErrors[1].Line)
	assert.Contains(t, rowErrors[1].Message, "negative")
	assert.Equal(t, 6, rowErrors[2].Line)
}

func TestParseCSVMissingColumn(t *testing.T) {
	_, _, err := ParseCSV(strings.NewReader("name,unit\nSalt,kg\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, _, err = ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	bass := &ingredient.Ingredient{Name: "Sea Bass", Category: "FISH", UnitPrice: 150, Unit: "kg", WastagePercent: 60}
	butter := &ingredient.Ingredient{Name: "Butter", Category: "DAIRY & EGGS", UnitPrice: 25, Unit: "kg", ProductCode: "BT-03"}
	require.NoError(t, st.CreateIngredient(ctx, bass))
	require.NoError(t, st.CreateIngredient(ctx, butter))

	ten := 10.0
	entries := []Entry{
		{Name: "SEA BASS", UnitPrice: 161, ProductCode: "FS-01"},
		{Name: "Unsalted butter", ProductCode: "bt-03", UnitPrice: 25},
		{Name: "Lobster", UnitPrice: 235, Unit: "kg", Category: "Shellfish", WastagePercent: &ten},
		{Name: "Lobster", UnitPrice: 240, Unit: "kg"},
	}

	report, err := Apply(ctx, st, entries, "sup-1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 3, report.Updated)
	assert.Equal(t, 0, report.Unchanged)
	assert.Empty(t, report.Errors)

	got, err := st.GetIngredient(ctx, bass.ID)
	require.NoError(t, err)
	assert.Equal(t, 161.0, got.UnitPrice)
	assert.Equal(t, 60.0, got.WastagePercent, "wastage is kept when the list has none")
	assert.Equal(t, "FS-01", got.ProductCode)
	assert.Equal(t, "sup-1", got.SupplierID)

	lobsters, err := st.ListIngredients(ctx, ingredient.Filter{Query: "lobster"})
	require.NoError(t, err)
	require.Len(t, lobsters, 1)
	assert.Equal(t, "SHELLFISH", lobsters[0].Category)
	assert.Equal(t, 240.0, lobsters[0].UnitPrice)
	assert.Equal(t, 10.0, lobsters[0].WastagePercent)

	report, err = Apply(ctx, st, []Entry{{Name: "Butter", UnitPrice: 25}}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Unchanged)
}

func TestDecodeEntries(t *testing.T) {
	text := "Here is the list:\n```json\n[" +
		`{"name": " Sea Bass ", "unit_price": 161, "unit": "KG", "product_code": "FS-01"},` +
		`{"name": "", "unit_price": 5},` +
		`{"name": "Avocado", "unit_price": 35, "wastage_percent": 400}` +
		"]\n```"

	entries, err := DecodeEntries(text)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Sea Bass", entries[0].Name)
	assert.Nil(t, entries[1].WastagePercent)

	_, err = DecodeEntries("NO a photo of a cat")
	assert.ErrorIs(t, err, ErrNotPriceList)

	_, err = DecodeEntries("the model said something else")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotPriceList)
}

func TestApplyRejectsInvalidUpdates(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	bass := &ingredient.Ingredient{Name: "Sea Bass", Category: "FISH", UnitPrice: 150, Unit: "kg", WastagePercent: 60}
	require.NoError(t, st.CreateIngredient(ctx, bass))

	over := 140.0
	entries := []Entry{
		{Name: "Sea Bass", UnitPrice: -3},
		{Name: "sea bass", UnitPrice: 155, WastagePercent: &over},
		{Name: "Mystery", UnitPrice: -1},
	}

	report, err := Apply(ctx, st, entries, "")
	require.NoError(t, err)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 0, report.Created)
	require.Len(t, report.Errors, 3)
	assert.Equal(t, 1, report.Errors[0].Line)
	assert.Contains(t, report.Errors[0].Message, "unit_price must be at least 0")
	assert.Contains(t, report.Errors[1].Message, "wastage_percent must be at most 100")
	assert.Equal(t, 3, report.Errors[2].Line)

	got, err := st.GetIngredient(ctx, bass.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.UnitPrice)
	assert.Equal(t, 60.0, got.WastagePercent)
}
