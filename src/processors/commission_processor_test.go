package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/noonfolio/src/models"
	"github.com/username/noonfolio/src/schema"
)

func annotatedRows(t *testing.T, s *schema.ResolvedSchema, rows ...models.Row) *models.Table {
	t.Helper()
	table := testTable(rows...)
	Annotate(table, s)
	return table
}

func TestBuildFBB(t *testing.T) {
	s := testSchema(t)
	p := NewCommissionProcessor()

	t.Run("folds shipment groups and derives the metrics", func(t *testing.T) {
		table := annotatedRows(t, s,
			models.Row{"awb_nr": "A1", "order_nr": "O1", "sku": "widget", "fulfillment_mode": "FBB", "base_price": "10", "fee_referral": "-1"},
			models.Row{"awb_nr": "A1", "order_nr": "O1", "sku": "widget", "fulfillment_mode": "FBB", "base_price": "20", "fee_referral": "-2"},
		)
		out := p.BuildFBB(table.Rows, table.Columns, s)

		require.Len(t, out.Rows, 1)
		row := out.Rows[0]
		assert.Equal(t, 30.0, row["base_price"])
		assert.Equal(t, -3.0, row["fee_referral"])
		assert.Equal(t, 10.0, row[models.ColCommissionRate])
		// 30 - 3 + 0 - 0.15*30
		assert.Equal(t, 22.5, row[models.ColFinalNet])
		assert.Equal(t, -3.0, row[models.ColTrialNet])
		assert.Equal(t, string(models.ChannelFBB), row[models.ColChannel])
		assert.Equal(t, 0.0, row[models.ColTrialPrice])
	})

	t.Run("network outbound fee is forced to zero", func(t *testing.T) {
		table := annotatedRows(t, s,
			models.Row{"awb_nr": "A1", "sku": "w", "fulfillment_mode": "FBB", "base_price": "10", "fee_outbound_fbn": "-5", "fee_directship_outbound": "-2"},
		)
		out := p.BuildFBB(table.Rows, table.Columns, s)

		require.Len(t, out.Rows, 1)
		assert.Equal(t, 0.0, out.Rows[0]["fee_outbound_fbn"])
		assert.Equal(t, -2.0, out.Rows[0]["fee_directship_outbound"])
		// 10 + 0 - 2 - 1.5; the forced fee never reaches the net
		assert.Equal(t, 6.5, out.Rows[0][models.ColFinalNet])
	})

	t.Run("groups come out sorted by awb then sku", func(t *testing.T) {
		table := annotatedRows(t, s,
			models.Row{"awb_nr": "B2", "sku": "z", "fulfillment_mode": "FBB", "base_price": "1"},
			models.Row{"awb_nr": "A1", "sku": "m", "fulfillment_mode": "FBB", "base_price": "1"},
			models.Row{"awb_nr": "A1", "sku": "a", "fulfillment_mode": "FBB", "base_price": "1"},
		)
		// distinct SKUs per shipment collapse to the first seen, so A1 is one group
		out := p.BuildFBB(table.Rows, table.Columns, s)

		require.Len(t, out.Rows, 2)
		assert.Equal(t, "A1", out.Rows[0]["awb_nr"])
		assert.Equal(t, "B2", out.Rows[1]["awb_nr"])
		assert.Equal(t, 2.0, out.Rows[0]["base_price"])
	})

	t.Run("identifier columns keep the first non-empty value", func(t *testing.T) {
		table := annotatedRows(t, s,
			models.Row{"awb_nr": "A1", "order_nr": "", "sku": "w", "fulfillment_mode": "FBB", "base_price": "1"},
			models.Row{"awb_nr": "A1", "order_nr": "O9", "sku": "w", "fulfillment_mode": "FBB", "base_price": "1"},
		)
		out := p.BuildFBB(table.Rows, table.Columns, s)

		require.Len(t, out.Rows, 1)
		assert.Equal(t, "O9", out.Rows[0]["order_nr"])
	})
}

func TestBuildFBN(t *testing.T) {
	s := testSchema(t)
	p := NewCommissionProcessor()

	t.Run("rows are never grouped", func(t *testing.T) {
		table := annotatedRows(t, s,
			models.Row{"awb_nr": "A1", "sku": "w", "fulfillment_mode": "FBN", "base_price": "100", "fee_referral": "-5", "fee_outbound_fbn": "-10"},
			models.Row{"awb_nr": "A1", "sku": "w", "fulfillment_mode": "FBN", "base_price": "50", "fee_referral": "-2", "fee_outbound_fbn": "-10"},
		)
		out := p.BuildFBN(table.Rows, table.Columns, s)

		require.Len(t, out.Rows, 2)
		// 100 - 5 - 10 - 15
		assert.Equal(t, 70.0, out.Rows[0][models.ColFinalNet])
		// 50 - 2 - 10 - 7.5
		assert.Equal(t, 30.5, out.Rows[1][models.ColFinalNet])
		assert.Equal(t, 5.0, out.Rows[0][models.ColCommissionRate])
		assert.Equal(t, string(models.ChannelFBN), out.Rows[0][models.ColChannel])
	})

	t.Run("direct-ship fee is forced to zero", func(t *testing.T) {
		table := annotatedRows(t, s,
			models.Row{"awb_nr": "A1", "sku": "w", "fulfillment_mode": "FBN", "base_price": "10", "fee_directship_outbound": "-7"},
		)
		out := p.BuildFBN(table.Rows, table.Columns, s)

		require.Len(t, out.Rows, 1)
		assert.Equal(t, 0.0, out.Rows[0]["fee_directship_outbound"])
		// 10 + 0 + 0 - 1.5
		assert.Equal(t, 8.5, out.Rows[0][models.ColFinalNet])
	})

	t.Run("source rows are not mutated", func(t *testing.T) {
		table := annotatedRows(t, s,
			models.Row{"awb_nr": "A1", "sku": "w", "fulfillment_mode": "FBN", "fee_directship_outbound": "-7"},
		)
		_ = p.BuildFBN(table.Rows, table.Columns, s)
		assert.Equal(t, "-7", table.Rows[0]["fee_directship_outbound"])
	})
}

func TestBuildOther(t *testing.T) {
	s := testSchema(t)
	p := NewCommissionProcessor()

	t.Run("groups by order id and keeps all fee sums", func(t *testing.T) {
		table := annotatedRows(t, s,
			models.Row{"awb_nr": "A1", "order_nr": "O1", "sku": "w", "marketplace": "noon instant", "base_price": "10", "fee_referral": "-1", "fee_outbound_fbn": "-2"},
			models.Row{"awb_nr": "A2", "order_nr": "O1", "sku": "w", "marketplace": "noon instant", "base_price": "10", "fee_referral": "-1", "fee_directship_outbound": "-1"},
		)
		out := p.BuildOther(table.Rows, table.Columns, s)

		require.Len(t, out.Rows, 1)
		row := out.Rows[0]
		assert.Equal(t, 20.0, row["base_price"])
		assert.Equal(t, -2.0, row["fee_referral"])
		assert.Equal(t, -2.0, row["fee_outbound_fbn"])
		assert.Equal(t, -1.0, row["fee_directship_outbound"])
		// 20 - 2 - 2 - 1 - 3
		assert.Equal(t, 12.0, row[models.ColFinalNet])
		assert.Equal(t, -5.0, row[models.ColTrialNet])
		assert.Equal(t, string(models.ChannelOther), row[models.ColChannel])
	})

	t.Run("free text folds as unique joined values", func(t *testing.T) {
		cols := append(append([]string{}, testColumns...), "notes")
		richSchema := schema.Resolve(cols)
		table := models.NewTable(cols)
		table.Rows = append(table.Rows,
			models.Row{"awb_nr": "A1", "order_nr": "O1", "sku": "w", "marketplace": "noon instant", "notes": "late"},
			models.Row{"awb_nr": "A2", "order_nr": "O1", "sku": "w", "marketplace": "noon instant", "notes": "damaged"},
			models.Row{"awb_nr": "A3", "order_nr": "O1", "sku": "w", "marketplace": "noon instant", "notes": "late"},
		)
		Annotate(table, richSchema)

		out := p.BuildOther(table.Rows, table.Columns, richSchema)
		require.Len(t, out.Rows, 1)
		assert.Equal(t, "late, damaged", out.Rows[0]["notes"])
	})

	t.Run("groups come out sorted by order id", func(t *testing.T) {
		table := annotatedRows(t, s,
			models.Row{"awb_nr": "A1", "order_nr": "O2", "sku": "w", "marketplace": "noon instant"},
			models.Row{"awb_nr": "A2", "order_nr": "O1", "sku": "w", "marketplace": "noon instant"},
		)
		out := p.BuildOther(table.Rows, table.Columns, s)

		require.Len(t, out.Rows, 2)
		assert.Equal(t, "O1", out.Rows[0]["order_nr"])
		assert.Equal(t, "O2", out.Rows[1]["order_nr"])
	})
}

func TestCommissionRate(t *testing.T) {
	t.Run("zero base yields zero instead of dividing", func(t *testing.T) {
		assert.Equal(t, 0.0, commissionRate(-3.0, 0.0))
	})

	t.Run("negative referral fee yields a positive rate", func(t *testing.T) {
		assert.Equal(t, 10.0, commissionRate(-3.0, 30.0))
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		assert.Equal(t, 33.33, commissionRate(-1.0, 3.0))
	})
}
