package processors

import (
	"github.com/username/noonfolio/src/models"
	"github.com/username/noonfolio/src/schema"
	"github.com/username/noonfolio/src/utils"
)

// channelFees returns the fee columns that participate in a channel's net
// formulas. FBB never carries the network outbound fee and FBN never carries
// the direct-ship fee; OTHER carries all three.
func channelFees(ch models.Channel, s *schema.ResolvedSchema) []string {
	ref := s.Column(schema.RoleReferralFee)
	fbn := s.Column(schema.RoleOutboundFBN)
	ds := s.Column(schema.RoleOutboundDS)
	switch ch {
	case models.ChannelFBB:
		return []string{ref, ds}
	case models.ChannelFBN:
		return []string{ref, fbn}
	default:
		return []string{ref, fbn, ds}
	}
}

// TrialNet computes the what-if net for one aggregated row: the committed
// formula with the trial price substituted for the base-price sum in the
// price terms only.
func TrialNet(row models.Row, trialPrice float64, ch models.Channel, s *schema.ResolvedSchema) float64 {
	total := trialPrice
	for _, col := range channelFees(ch, s) {
		total += CoerceFloat(row[col])
	}
	return utils.RoundFloat(total-trialPrice*holdBackRate, 2)
}

// ApplyTrialPrice records the trial price on the row and overwrites
// trial_net. final_net and the committed fee sums are never touched, so the
// operation is idempotent and safe to re-run on every edit.
func ApplyTrialPrice(row models.Row, trialPrice float64, ch models.Channel, s *schema.ResolvedSchema) {
	row[models.ColTrialPrice] = trialPrice
	row[models.ColTrialNet] = TrialNet(row, trialPrice, ch, s)
}

// RecomputeTrialNet re-runs the trial computation for every row of an
// aggregated table that carries a trial price, coercing bad values to 0.
func RecomputeTrialNet(t *models.Table, ch models.Channel, s *schema.ResolvedSchema) {
	for _, row := range t.Rows {
		if _, ok := row[models.ColTrialPrice]; !ok {
			continue
		}
		ApplyTrialPrice(row, CoerceFloat(row[models.ColTrialPrice]), ch, s)
	}
}
