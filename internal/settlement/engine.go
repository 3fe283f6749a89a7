package settlement

import (
	"math"

	"github.com/estatebook/estatebook-api/internal/project"
	"github.com/estatebook/estatebook-api/internal/transaction"
)

// Epsilon is the monetary threshold below which a deviation from the group
// average produces no settlement entry, suppressing near-zero noise
const Epsilon = 0.01

// Draft is the engine's verdict for one partner before persistence
type Draft struct {
	PartnerID       string
	NetPaid         float64
	Deviation       float64 // average − netPaid; positive means the partner is owed money
	PaymentAmount   float64
	PreviousBalance float64
	FinalBalance    float64
	Notes           string
}

// ComputeEqualization derives the equalizing transfer for each partner from
// their partner-attributed transactions.
//
// Each partner's net contribution is the sum of their receipts minus their
// payments. The group average of those nets is the fair share; a partner
// whose net deviates from the average by more than Epsilon gets a draft
// settlement moving them to the average. Partners with no transactions count
// with a net of zero and still pull the average down.
//
// Fewer than two partners yields no drafts: equalization is meaningless for a
// single party. The computation is pure; callers own persistence.
func ComputeEqualization(partners []project.Partner, txns []transaction.Transaction) []Draft {
	if len(partners) < 2 {
		return nil
	}

	netPaid := make(map[string]float64, len(partners))
	for _, p := range partners {
		netPaid[p.PartnerID] = 0
	}

	for _, txn := range txns {
		if txn.PartnerID == "" {
			continue
		}
		// Transactions attributed to partners outside the group are ignored
		if _, ok := netPaid[txn.PartnerID]; !ok {
			continue
		}

		switch txn.Type {
		case transaction.TypeReceipt:
			netPaid[txn.PartnerID] += txn.Amount
		case transaction.TypePayment:
			netPaid[txn.PartnerID] -= txn.Amount
		}
	}

	var total float64
	for _, p := range partners {
		total += netPaid[p.PartnerID]
	}
	average := total / float64(len(partners))

	var drafts []Draft
	for _, p := range partners {
		deviation := average - netPaid[p.PartnerID]
		if math.Abs(deviation) <= Epsilon {
			continue
		}

		notes := NoteOwedByPartner
		if deviation > 0 {
			notes = NoteOwedToPartner
		}

		drafts = append(drafts, Draft{
			PartnerID:       p.PartnerID,
			NetPaid:         netPaid[p.PartnerID],
			Deviation:       deviation,
			PaymentAmount:   math.Abs(deviation),
			PreviousBalance: p.CurrentBalance,
			FinalBalance:    p.CurrentBalance + deviation,
			Notes:           notes,
		})
	}

	return drafts
}
