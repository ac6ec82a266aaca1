package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/noonfolio/src/models"
)

func TestFindColumn(t *testing.T) {
	t.Run("exact match wins over substring match", func(t *testing.T) {
		cols := []string{"fee_referral_old", "Fee_Referral", "fee"}
		assert.Equal(t, "Fee_Referral", FindColumn(cols, "fee_referral"))
	})

	t.Run("substring match is case-insensitive", func(t *testing.T) {
		cols := []string{"Order Nr", "Fee_Referral (AF)", "Base Price (AED)"}
		assert.Equal(t, "Fee_Referral (AF)", FindColumn(cols, "fee_referral"))
	})

	t.Run("first column wins among multiple substring matches", func(t *testing.T) {
		cols := []string{"total_fee_a", "total_fee_b"}
		assert.Equal(t, "total_fee_a", FindColumn(cols, "fee"))
	})

	t.Run("no match returns empty", func(t *testing.T) {
		assert.Equal(t, "", FindColumn([]string{"a", "b"}, "awb_nr"))
	})

	t.Run("key is trimmed and case-folded", func(t *testing.T) {
		cols := []string{"AWB_NR"}
		assert.Equal(t, "AWB_NR", FindColumn(cols, "  awb_nr "))
	})
}

func TestResolve_FallbackChains(t *testing.T) {
	t.Run("awb falls back to AWB/TRACK keywords", func(t *testing.T) {
		rs := Resolve([]string{"Shipment Tracking No", "order_nr", "sku"})
		assert.Equal(t, "Shipment Tracking No", rs.Column(RoleAWB))
	})

	t.Run("awb falls back to first column when no keyword matches", func(t *testing.T) {
		rs := Resolve([]string{"ref", "order_nr", "sku"})
		assert.Equal(t, "ref", rs.Column(RoleAWB))
	})

	t.Run("order falls back to ORDER keyword then first column", func(t *testing.T) {
		rs := Resolve([]string{"ref", "Customer Order ID", "sku"})
		assert.Equal(t, "Customer Order ID", rs.Column(RoleOrder))

		rs = Resolve([]string{"ref", "id", "sku"})
		assert.Equal(t, "ref", rs.Column(RoleOrder))
	})

	t.Run("sku falls back to SKU/ITEM/PRODUCT keywords then last column", func(t *testing.T) {
		rs := Resolve([]string{"awb_nr", "Item Code", "marketplace", "fulfillment_mode"})
		assert.Equal(t, "Item Code", rs.Column(RoleSKU))
	})

	t.Run("optional roles stay unresolved", func(t *testing.T) {
		rs := Resolve([]string{"awb_nr", "order_nr", "sku", "marketplace", "fulfillment_mode"})
		assert.False(t, rs.HasRole(RoleOrderDate))
		assert.False(t, rs.HasRole(RolePartnerID))
		assert.False(t, rs.HasRole(RoleSalePrice))
		assert.Equal(t, "", rs.Column(RoleQuantity))
	})
}

func TestResolve_Synthesis(t *testing.T) {
	t.Run("missing columns are synthesized with typed defaults", func(t *testing.T) {
		rs := Resolve([]string{"awb_nr", "order_nr", "sku", "marketplace", "fulfillment_mode"})

		assert.Equal(t, "base_price", rs.Column(RoleBasePrice))
		assert.Equal(t, "fee_referral", rs.Column(RoleReferralFee))
		assert.Equal(t, "fee_outbound_fbn", rs.Column(RoleOutboundFBN))
		assert.Equal(t, "fee_directship_outbound", rs.Column(RoleOutboundDS))

		table := models.NewTable([]string{"awb_nr", "order_nr", "sku", "marketplace", "fulfillment_mode"})
		table.Rows = append(table.Rows, models.Row{"awb_nr": "A1"})
		rs.Apply(table)

		require.True(t, table.HasColumn("base_price"))
		require.True(t, table.HasColumn(models.ColTotalPayment))
		assert.Equal(t, 0.0, table.Rows[0]["base_price"])
		assert.Equal(t, "", table.Rows[0]["marketplace"])
		assert.Equal(t, 0.0, table.Rows[0][models.ColTotalPayment])
	})

	t.Run("synthesized columns join the working set for later positional fallbacks", func(t *testing.T) {
		// No marketplace column, so one is synthesized and appended. The SKU
		// role resolves after that and has no keyword match here, so its
		// last-column fallback lands on the synthesized marketplace column.
		rs := Resolve([]string{"awb_nr", "order_nr"})
		assert.Equal(t, "marketplace", rs.Column(RoleMarketplace))
		assert.Equal(t, "marketplace", rs.Column(RoleSKU))
	})

	t.Run("present columns are never synthesized", func(t *testing.T) {
		rs := Resolve([]string{"awb_nr", "order_nr", "sku", "Marketplace Name", "fulfillment_mode", "Base Price (AED)"})
		assert.Equal(t, "Marketplace Name", rs.Column(RoleMarketplace))
		assert.Equal(t, "Base Price (AED)", rs.Column(RoleBasePrice))

		table := models.NewTable([]string{"awb_nr", "order_nr", "sku", "Marketplace Name", "fulfillment_mode", "Base Price (AED)"})
		rs.Apply(table)
		assert.False(t, table.HasColumn("marketplace"))
		assert.False(t, table.HasColumn("base_price"))
	})
}

func TestResolvedSchema_Accessors(t *testing.T) {
	rs := Resolve([]string{"awb_nr", "order_nr", "sku", "marketplace", "fulfillment_mode", "ordered_date", "id_partner"})

	t.Run("identifier columns cover keys, partner and date", func(t *testing.T) {
		ids := rs.IdentifierColumns()
		assert.True(t, ids["awb_nr"])
		assert.True(t, ids["order_nr"])
		assert.True(t, ids["sku"])
		assert.True(t, ids["id_partner"])
		assert.True(t, ids["ordered_date"])
		assert.False(t, ids["fee_referral"])
	})

	t.Run("summary reports the role to column mapping", func(t *testing.T) {
		summary := rs.Summary()
		assert.Equal(t, "awb_nr", summary[string(RoleAWB)])
		assert.Equal(t, "ordered_date", summary[string(RoleOrderDate)])
	})
}
