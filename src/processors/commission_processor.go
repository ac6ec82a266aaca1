package processors

import (
	"math"
	"sort"

	"github.com/username/noonfolio/src/models"
	"github.com/username/noonfolio/src/schema"
	"github.com/username/noonfolio/src/utils"
)

// holdBackRate is the marketplace hold-back deducted from the sale price in
// every net-profit formula.
const holdBackRate = 0.15

type commissionProcessorImpl struct{}

func NewCommissionProcessor() CommissionProcessor {
	return &commissionProcessorImpl{}
}

func outputColumns(columns []string) []string {
	out := make([]string, 0, len(columns)+len(models.DerivedColumns))
	out = append(out, columns...)
	out = append(out, models.DerivedColumns...)
	return out
}

// commissionRate is abs(referral)/base as a percentage, 0 when the base sum
// is 0. Never negative.
func commissionRate(referralSum, baseSum float64) float64 {
	if baseSum == 0 {
		return 0.0
	}
	return utils.RoundFloat(math.Abs(referralSum/baseSum)*100, 2)
}

// foldColumn applies the shared fold rule: identifier columns keep the first
// non-empty value, columns with at least one coercible value are summed, and
// anything else falls back to textFold.
func foldColumn(group []models.Row, col string, identifiers map[string]bool, textFold func([]models.Row, string) string) any {
	if identifiers[col] {
		return FirstNonEmpty(group, col)
	}
	if anyNumeric(group, col) {
		return SumNumeric(group, col)
	}
	return textFold(group, col)
}

// BuildFBB groups shipment-fulfilled rows by (awb, clean_sku) and folds each
// group into one aggregated row. The network outbound fee never applies to
// this channel and is forced to 0.
func (p *commissionProcessorImpl) BuildFBB(rows []models.Row, columns []string, s *schema.ResolvedSchema) *models.Table {
	awbCol := s.Column(schema.RoleAWB)
	skuCol := s.Column(schema.RoleSKU)
	baseCol := s.Column(schema.RoleBasePrice)
	refCol := s.Column(schema.RoleReferralFee)
	fbnCol := s.Column(schema.RoleOutboundFBN)
	dsCol := s.Column(schema.RoleOutboundDS)
	identifiers := s.IdentifierColumns()

	type groupKey struct{ awb, sku string }
	groups := make(map[groupKey][]models.Row)
	var keys []groupKey
	for _, row := range rows {
		key := groupKey{
			awb: models.CellString(row[awbCol]),
			sku: models.CellString(row[models.ColCleanSKU]),
		}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], row)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].awb != keys[j].awb {
			return keys[i].awb < keys[j].awb
		}
		return keys[i].sku < keys[j].sku
	})

	table := models.NewTable(outputColumns(columns))
	for _, key := range keys {
		group := groups[key]
		row := models.Row{}
		for _, col := range columns {
			row[col] = foldColumn(group, col, identifiers, FirstNonEmpty)
		}

		baseSum := SumNumeric(group, baseCol)
		refSum := SumNumeric(group, refCol)
		dsSum := SumNumeric(group, dsCol)
		row[baseCol] = baseSum
		row[refCol] = refSum
		row[fbnCol] = 0.0
		row[dsCol] = dsSum
		row[awbCol] = key.awb
		row[skuCol] = key.sku

		row[models.ColChannel] = string(models.ChannelFBB)
		row[models.ColCommissionRate] = commissionRate(refSum, baseSum)
		row[models.ColTrialPrice] = 0.0
		row[models.ColFinalNet] = utils.RoundFloat(baseSum+refSum+dsSum-baseSum*holdBackRate, 2)
		row[models.ColTrialNet] = utils.RoundFloat(refSum+dsSum, 2)
		table.Rows = append(table.Rows, row)
	}
	return table
}

// BuildFBN is deliberately row-wise: network-fulfilled orders do not fan out
// across shipment rows, so every input row becomes one output row. The
// direct-ship outbound fee never applies here and is forced to 0.
func (p *commissionProcessorImpl) BuildFBN(rows []models.Row, columns []string, s *schema.ResolvedSchema) *models.Table {
	baseCol := s.Column(schema.RoleBasePrice)
	refCol := s.Column(schema.RoleReferralFee)
	fbnCol := s.Column(schema.RoleOutboundFBN)
	dsCol := s.Column(schema.RoleOutboundDS)

	table := models.NewTable(outputColumns(columns))
	for _, src := range rows {
		row := models.Row{}
		for k, v := range src {
			row[k] = v
		}

		base := CoerceFloat(row[baseCol])
		ref := CoerceFloat(row[refCol])
		fbnFee := CoerceFloat(row[fbnCol])
		row[dsCol] = 0.0

		row[models.ColChannel] = string(models.ChannelFBN)
		row[models.ColCommissionRate] = commissionRate(ref, base)
		row[models.ColTrialPrice] = 0.0
		row[models.ColFinalNet] = utils.RoundFloat(base+ref+fbnFee-base*holdBackRate, 2)
		row[models.ColTrialNet] = utils.RoundFloat(ref+fbnFee, 2)
		table.Rows = append(table.Rows, row)
	}
	return table
}

// BuildOther groups noon-instant rows by order id. Free-text columns fold as
// a comma-joined set of unique values rather than first-non-empty, and all
// three fee sums apply.
func (p *commissionProcessorImpl) BuildOther(rows []models.Row, columns []string, s *schema.ResolvedSchema) *models.Table {
	orderCol := s.Column(schema.RoleOrder)
	baseCol := s.Column(schema.RoleBasePrice)
	refCol := s.Column(schema.RoleReferralFee)
	fbnCol := s.Column(schema.RoleOutboundFBN)
	dsCol := s.Column(schema.RoleOutboundDS)
	identifiers := s.IdentifierColumns()

	groups := make(map[string][]models.Row)
	var keys []string
	for _, row := range rows {
		key := models.CellString(row[orderCol])
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], row)
	}
	sort.Strings(keys)

	table := models.NewTable(outputColumns(columns))
	for _, key := range keys {
		group := groups[key]
		row := models.Row{}
		for _, col := range columns {
			row[col] = foldColumn(group, col, identifiers, UniqueJoined)
		}

		baseSum := SumNumeric(group, baseCol)
		refSum := SumNumeric(group, refCol)
		fbnSum := SumNumeric(group, fbnCol)
		dsSum := SumNumeric(group, dsCol)
		row[orderCol] = key
		row[baseCol] = baseSum
		row[refCol] = refSum
		row[fbnCol] = fbnSum
		row[dsCol] = dsSum

		row[models.ColChannel] = string(models.ChannelOther)
		row[models.ColCommissionRate] = commissionRate(refSum, baseSum)
		row[models.ColTrialPrice] = 0.0
		row[models.ColFinalNet] = utils.RoundFloat(baseSum+refSum+fbnSum+dsSum-baseSum*holdBackRate, 2)
		row[models.ColTrialNet] = utils.RoundFloat(refSum+fbnSum+dsSum, 2)
		table.Rows = append(table.Rows, row)
	}
	return table
}

// channelKeyColumn is the column batch lookup and trial edits address a
// channel's rows by: shipment id for FBB/FBN, order id for OTHER.
func channelKeyColumn(ch models.Channel, s *schema.ResolvedSchema) string {
	if ch == models.ChannelOther {
		return s.Column(schema.RoleOrder)
	}
	return s.Column(schema.RoleAWB)
}
