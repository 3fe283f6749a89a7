package settlement

import (
	"math"
	"math/rand"
	"testing"

	"github.com/estatebook/estatebook-api/internal/project"
	"github.com/estatebook/estatebook-api/internal/transaction"
)

func partner(id string, balance float64) project.Partner {
	return project.Partner{PartnerID: id, CurrentBalance: balance}
}

func receipt(partnerID string, amount float64) transaction.Transaction {
	return transaction.Transaction{
		TransactionID: "TXN_" + partnerID,
		Type:          transaction.TypeReceipt,
		Amount:        amount,
		PartnerID:     partnerID,
	}
}

func payment(partnerID string, amount float64) transaction.Transaction {
	return transaction.Transaction{
		TransactionID: "TXN_" + partnerID,
		Type:          transaction.TypePayment,
		Amount:        amount,
		PartnerID:     partnerID,
	}
}

func draftFor(drafts []Draft, partnerID string) *Draft {
	for i := range drafts {
		if drafts[i].PartnerID == partnerID {
			return &drafts[i]
		}
	}
	return nil
}

func TestComputeEqualization(t *testing.T) {
	tests := []struct {
		name         string
		partners     []project.Partner
		txns         []transaction.Transaction
		validateFunc func(t *testing.T, drafts []Draft)
	}{
		{
			name:     "no partners produces no drafts",
			partners: nil,
			txns:     nil,
			validateFunc: func(t *testing.T, drafts []Draft) {
				if len(drafts) != 0 {
					t.Errorf("got %d drafts, want 0", len(drafts))
				}
			},
		},
		{
			name:     "single partner produces no drafts",
			partners: []project.Partner{partner("A", 0)},
			txns:     []transaction.Transaction{receipt("A", 100000)},
			validateFunc: func(t *testing.T, drafts []Draft) {
				if len(drafts) != 0 {
					t.Errorf("got %d drafts, want 0", len(drafts))
				}
			},
		},
		{
			name:     "two partners with one contributor",
			partners: []project.Partner{partner("A", 0), partner("B", 0)},
			txns:     []transaction.Transaction{receipt("A", 100000)},
			validateFunc: func(t *testing.T, drafts []Draft) {
				// Average = 50,000. A over-contributed, B under-contributed.
				if len(drafts) != 2 {
					t.Fatalf("got %d drafts, want 2", len(drafts))
				}

				a := draftFor(drafts, "A")
				if a == nil {
					t.Fatal("no draft for partner A")
				}
				if math.Abs(a.PaymentAmount-50000) > Epsilon {
					t.Errorf("A payment = %v, want 50000", a.PaymentAmount)
				}
				if a.Notes != NoteOwedByPartner {
					t.Errorf("A notes = %q, want %q", a.Notes, NoteOwedByPartner)
				}
				if math.Abs(a.FinalBalance-(-50000)) > Epsilon {
					t.Errorf("A final balance = %v, want -50000", a.FinalBalance)
				}

				b := draftFor(drafts, "B")
				if b == nil {
					t.Fatal("no draft for partner B")
				}
				if math.Abs(b.PaymentAmount-50000) > Epsilon {
					t.Errorf("B payment = %v, want 50000", b.PaymentAmount)
				}
				if b.Notes != NoteOwedToPartner {
					t.Errorf("B notes = %q, want %q", b.Notes, NoteOwedToPartner)
				}
				if math.Abs(b.FinalBalance-50000) > Epsilon {
					t.Errorf("B final balance = %v, want 50000", b.FinalBalance)
				}
			},
		},
		{
			name: "equal contributions produce no drafts",
			partners: []project.Partner{
				partner("A", 0), partner("B", 0), partner("C", 0),
			},
			txns: []transaction.Transaction{
				receipt("A", 30000), receipt("B", 30000), receipt("C", 30000),
			},
			validateFunc: func(t *testing.T, drafts []Draft) {
				if len(drafts) != 0 {
					t.Errorf("got %d drafts, want 0", len(drafts))
				}
			},
		},
		{
			name:     "deviation within epsilon is suppressed",
			partners: []project.Partner{partner("A", 0), partner("B", 0)},
			txns: []transaction.Transaction{
				receipt("A", 100.005), receipt("B", 100.00),
			},
			validateFunc: func(t *testing.T, drafts []Draft) {
				// Deviation is 0.0025 per partner, inside the 0.01 epsilon.
				if len(drafts) != 0 {
					t.Errorf("got %d drafts, want 0", len(drafts))
				}
			},
		},
		{
			name:     "payments reduce net contribution",
			partners: []project.Partner{partner("A", 0), partner("B", 0)},
			txns: []transaction.Transaction{
				receipt("A", 80000),
				payment("A", 20000),
				receipt("B", 20000),
			},
			validateFunc: func(t *testing.T, drafts []Draft) {
				// A net = 60,000; B net = 20,000; average = 40,000.
				a := draftFor(drafts, "A")
				if a == nil {
					t.Fatal("no draft for partner A")
				}
				if math.Abs(a.NetPaid-60000) > Epsilon {
					t.Errorf("A netPaid = %v, want 60000", a.NetPaid)
				}
				if math.Abs(a.PaymentAmount-20000) > Epsilon {
					t.Errorf("A payment = %v, want 20000", a.PaymentAmount)
				}
			},
		},
		{
			name: "partner with no transactions counts as zero",
			partners: []project.Partner{
				partner("A", 0), partner("B", 0), partner("C", 0),
			},
			txns: []transaction.Transaction{
				receipt("A", 60000), receipt("B", 60000),
			},
			validateFunc: func(t *testing.T, drafts []Draft) {
				// Average = 40,000: C pulls it down despite having no activity.
				c := draftFor(drafts, "C")
				if c == nil {
					t.Fatal("no draft for partner C")
				}
				if math.Abs(c.PaymentAmount-40000) > Epsilon {
					t.Errorf("C payment = %v, want 40000", c.PaymentAmount)
				}
				if c.Notes != NoteOwedToPartner {
					t.Errorf("C notes = %q, want %q", c.Notes, NoteOwedToPartner)
				}
			},
		},
		{
			name:     "unattributed and foreign transactions are ignored",
			partners: []project.Partner{partner("A", 0), partner("B", 0)},
			txns: []transaction.Transaction{
				receipt("", 999999),
				receipt("Z", 999999),
				receipt("A", 10000),
			},
			validateFunc: func(t *testing.T, drafts []Draft) {
				a := draftFor(drafts, "A")
				if a == nil {
					t.Fatal("no draft for partner A")
				}
				if math.Abs(a.NetPaid-10000) > Epsilon {
					t.Errorf("A netPaid = %v, want 10000", a.NetPaid)
				}
			},
		},
		{
			name: "final balance moves from the current balance",
			partners: []project.Partner{
				partner("A", 5000), partner("B", -1000),
			},
			txns: []transaction.Transaction{receipt("A", 10000)},
			validateFunc: func(t *testing.T, drafts []Draft) {
				// Average = 5,000; A deviates by −5,000, B by +5,000.
				a := draftFor(drafts, "A")
				if a == nil {
					t.Fatal("no draft for partner A")
				}
				if math.Abs(a.PreviousBalance-5000) > Epsilon {
					t.Errorf("A previous balance = %v, want 5000", a.PreviousBalance)
				}
				if math.Abs(a.FinalBalance-0) > Epsilon {
					t.Errorf("A final balance = %v, want 0", a.FinalBalance)
				}

				b := draftFor(drafts, "B")
				if b == nil {
					t.Fatal("no draft for partner B")
				}
				if math.Abs(b.FinalBalance-4000) > Epsilon {
					t.Errorf("B final balance = %v, want 4000", b.FinalBalance)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts := ComputeEqualization(tt.partners, tt.txns)
			tt.validateFunc(t, drafts)
		})
	}
}

// TestComputeEqualizationMeanProperty checks that for random contribution
// vectors the implied average equals the arithmetic mean and the emitted
// deviations sum to approximately zero.
func TestComputeEqualizationMeanProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 100; trial++ {
		numPartners := 2 + rng.Intn(8)

		partners := make([]project.Partner, 0, numPartners)
		txns := make([]transaction.Transaction, 0, numPartners)
		var total float64

		for i := 0; i < numPartners; i++ {
			id := string(rune('A' + i))
			partners = append(partners, partner(id, 0))

			amount := math.Round(rng.Float64()*1000000) / 100
			txns = append(txns, receipt(id, amount))
			total += amount
		}

		mean := total / float64(numPartners)
		drafts := ComputeEqualization(partners, txns)

		var deviationSum float64
		for _, d := range drafts {
			deviationSum += d.Deviation

			impliedMean := d.NetPaid + d.Deviation
			if math.Abs(impliedMean-mean) > 0.01 {
				t.Fatalf("trial %d: implied mean %v, want %v", trial, impliedMean, mean)
			}
			if math.Abs(d.PaymentAmount-math.Abs(d.Deviation)) > 1e-9 {
				t.Fatalf("trial %d: payment %v does not match |deviation| %v", trial, d.PaymentAmount, d.Deviation)
			}
		}

		// Settlements redistribute; they cannot create or destroy money.
		// Suppressed near-zero deviations keep the sum within epsilon bounds.
		if math.Abs(deviationSum) > Epsilon*float64(numPartners) {
			t.Fatalf("trial %d: deviations sum to %v, want ~0", trial, deviationSum)
		}
	}
}
