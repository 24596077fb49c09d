package payment_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alpenride/booking-api/internal/payment"
)

func TestSandboxApproves(t *testing.T) {
	p := payment.NewSandbox()
	res, err := p.Submit(context.Background(), payment.Request{
		SessionID:  "s1",
		Items:      []payment.Item{{VariantID: "v1", Qty: 1, UnitPrice: 2500}},
		TotalCents: 3000,
	})
	require.NoError(t, err)
	require.True(t, res.OK)
	require.True(t, strings.HasPrefix(res.Reference, "BK-"))
	require.Len(t, res.Reference, len("BK-")+8)
}

func TestSandboxDeclinesZeroTotal(t *testing.T) {
	p := payment.NewSandbox()
	res, err := p.Submit(context.Background(), payment.Request{
		Items:      []payment.Item{{VariantID: "v1", Qty: 1}},
		TotalCents: 0,
	})
	require.NoError(t, err)
	require.False(t, res.OK)
	require.NotEmpty(t, res.Message)
}

func TestSandboxDeclinesEmptyBasket(t *testing.T) {
	p := payment.NewSandbox()
	res, err := p.Submit(context.Background(), payment.Request{TotalCents: 100})
	require.NoError(t, err)
	require.False(t, res.OK)
}

func TestSandboxReferencesAreUnique(t *testing.T) {
	p := payment.NewSandbox()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		res, err := p.Submit(context.Background(), payment.Request{
			Items:      []payment.Item{{VariantID: "v1", Qty: 1}},
			TotalCents: 100,
		})
		require.NoError(t, err)
		require.False(t, seen[res.Reference])
		seen[res.Reference] = true
	}
}
