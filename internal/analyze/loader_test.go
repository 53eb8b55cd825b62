package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_LoadPackages(t *testing.T) {
	analyzer := NewAnalyzer()
	table, err := analyzer.LoadPackages("contract-mapper/store", "contract-mapper/warehouse")
	require.NoError(t, err)
	require.NotNil(t, table)

	_, ok := table.Lookup("contract-mapper/store.Order")
	assert.True(t, ok)

	_, ok = table.Lookup("contract-mapper/warehouse.Order")
	assert.True(t, ok)
}

func TestAnalyzer_StructBecomesClass(t *testing.T) {
	table, err := NewAnalyzer().LoadPackages("contract-mapper/store")
	require.NoError(t, err)

	order, ok := table.Lookup("contract-mapper/store.Order")
	require.True(t, ok)
	assert.Equal(t, KindClass, order.Kind)
	assert.True(t, order.HasConstructor)
	assert.Equal(t,
		[]string{"ID", "Customer", "Status", "TotalCents", "Items", "Notes", "OrderedAt"},
		order.MemberNames())

	items, ok := order.Member("Items")
	require.True(t, ok)
	assert.Equal(t, "List<contract-mapper/store.OrderItem>", items.Type.String())

	notes, _ := order.Member("Notes")
	assert.Equal(t, "Map<String, String>", notes.Type.String())

	orderedAt, _ := order.Member("OrderedAt")
	assert.Equal(t, "time.Time", orderedAt.Type.String())

	for _, p := range order.Constructor {
		assert.True(t, p.HasDefault, p.Name)
	}
}

func TestAnalyzer_PointerBecomesNullable(t *testing.T) {
	table, err := NewAnalyzer().LoadPackages("contract-mapper/store")
	require.NoError(t, err)

	customer, ok := table.Lookup("contract-mapper/store.Customer")
	require.True(t, ok)

	address, ok := customer.Member("Address")
	require.True(t, ok)
	assert.True(t, address.Type.Nullable)
	assert.Equal(t, TypeString, address.Type.Name)
}

func TestAnalyzer_EnumConstants(t *testing.T) {
	table, err := NewAnalyzer().LoadPackages("contract-mapper/warehouse")
	require.NoError(t, err)

	status, ok := table.Lookup("contract-mapper/warehouse.Status")
	require.True(t, ok)
	assert.Equal(t, KindEnum, status.Kind)

	var names []string
	for _, c := range status.Constants {
		names = append(names, c.Name)
	}

	assert.Equal(t, []string{"Pending", "Paid", "Shipped", "Cancelled", "Returned"}, names)

	returned, ok := status.Constant("Returned")
	require.True(t, ok)
	assert.Equal(t, "StatusReturned", returned.Ident)
}

func TestAnalyzer_InterfaceFunctions(t *testing.T) {
	table, err := NewAnalyzer().LoadPackages("contract-mapper/warehouse")
	require.NoError(t, err)

	clock, ok := table.Lookup("contract-mapper/warehouse.Clock")
	require.True(t, ok)
	assert.Equal(t, KindInterface, clock.Kind)
	require.Len(t, clock.Functions, 1)

	fn := clock.Functions[0]
	assert.Equal(t, "FormatTime", fn.Name)
	assert.Equal(t, TypeString, fn.Returns.Name)

	subject, unary := fn.Subject()
	require.True(t, unary)
	assert.Equal(t, "time.Time", subject.Type.Name)
}

func TestConstantName(t *testing.T) {
	assert.Equal(t, "Red", constantName("Color", "ColorRed"))
	assert.Equal(t, "Blue", constantName("Color", "Blue"))
	assert.Equal(t, "Color", constantName("Color", "Color"))
}

func TestAnalyzer_ExternalTypesAreOpaque(t *testing.T) {
	table, err := NewAnalyzer().LoadPackages("contract-mapper/store")
	require.NoError(t, err)

	tm, ok := table.Lookup("time.Time")
	require.True(t, ok)
	assert.Equal(t, KindClass, tm.Kind)
	assert.False(t, tm.HasConstructor)
	assert.Empty(t, tm.Members)
}
