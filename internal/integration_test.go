package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/docanno/internal/source"
	"github.com/toyz/docanno/internal/utils"
	"github.com/toyz/docanno/pkg/annotations"
)

// TestDirectoryToAnnotationsIntegration runs a package directory through
// loading, indexing and cached annotation reads.
func TestDirectoryToAnnotationsIntegration(t *testing.T) {
	src := `package orders

/**
 * @Entity
 * @Table(name=orders, schema=sales)
 */
type Order struct {
	/** @Id @Column(type=integer) */
	ID int

	/**
	 * @Column(type=decimal, precision=10, scale=2)
	 * @Column(type=money)
	 */
	Total float64

	// @Relation(target=Customer, inverse=orders)
	Customer *Customer
}

type Customer struct {
	Name string
}
`
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.go"), []byte(src), 0644))

	idx, err := source.LoadDir(utils.NewFileProcessor(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"orders.Customer", "orders.Order"}, idx.Keys())

	reader := annotations.NewCachedReader(nil, idx)

	class, err := reader.ClassAnnotations("Order")
	require.NoError(t, err)
	assert.Equal(t, []string{"table"}, class.Names())
	assert.Equal(t, []string{"Entity"}, class.Bare())

	table, ok := class.Get("table")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"name": "orders", "schema": "sales"}, table.Named())

	props, err := reader.PropertyAnnotations("Order", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Total", "Customer"}, props.Names())

	// only the text after the last '@' on a line survives
	id, _ := props.Get("ID")
	column, ok := id.Get("column")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"type": "integer"}, column.Named())
	assert.False(t, id.Has("id"))

	// a repeated annotation keeps the last arguments
	total, _ := props.Get("Total")
	column, _ = total.Get("column")
	assert.Equal(t, map[string]string{"type": "money"}, column.Named())

	customer, _ := props.Get("Customer")
	relation, ok := customer.Get("relation")
	require.True(t, ok)
	value, _ := relation.Get("inverse")
	assert.Equal(t, "orders", value)

	empty, err := reader.ClassAnnotations("Customer")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = reader.ClassAnnotations("Invoice")
	assert.ErrorIs(t, err, source.ErrTypeNotFound)
}
