package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusPolicyTable(t *testing.T) {
	cases := map[OrderStatus]StatusPolicy{
		OrderStatusPending:   {},
		OrderStatusCanceled:  {},
		OrderStatusDelivered: {ImpactsStock: true},
		OrderStatusPaid:      {ImpactsStock: true, RecordsRevenue: true},
		OrderStatusShipped:   {ImpactsStock: true, RecordsRevenue: true},
	}
	for status, want := range cases {
		assert.Equal(t, want, status.Policy(), status)
	}
	assert.Equal(t, StatusPolicy{}, OrderStatus("archived").Policy())
}

func TestRevenueStatusesRecordRevenue(t *testing.T) {
	for _, status := range RevenueStatuses {
		assert.True(t, status.Policy().RecordsRevenue, status)
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("livree")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusDelivered, status)

	_, err = ParseOrderStatus("Livree")
	assert.Error(t, err)
	assert.Len(t, OrderStatuses(), 5)
}

func TestParseEnumsRejectUnknown(t *testing.T) {
	_, err := ParseMemberRole("owner")
	assert.Error(t, err)
	role, err := ParseMemberRole("client")
	require.NoError(t, err)
	assert.True(t, role.IsValid())

	_, err = ParseStockMovementReason("theft")
	assert.Error(t, err)
}
