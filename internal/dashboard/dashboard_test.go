package dashboard

import (
	"fmt"
	"math"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/estatebook/estatebook-api/internal/finance"
	"github.com/estatebook/estatebook-api/internal/project"
	"github.com/estatebook/estatebook-api/internal/property"
	"github.com/estatebook/estatebook-api/internal/transaction"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache memory database keeps every pooled connection on
	// the same data; the test name keeps databases isolated between tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	err = db.AutoMigrate(
		&project.Project{},
		&project.Partner{},
		&transaction.Cashbox{},
		&finance.Revenue{},
		&finance.Expense{},
		&property.Unit{},
		&property.Installment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func seed(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("failed to seed %T: %v", value, err)
	}
}

func TestGetStats(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db)

	now := time.Now()

	seed(t, db, &project.Project{ProjectID: "PRJ_1", Name: "Riverside Towers", Status: "ACTIVE", StartDate: now})
	seed(t, db, &project.Partner{PartnerID: "PRT_A", ProjectID: "PRJ_1", Name: "A"})
	seed(t, db, &project.Partner{PartnerID: "PRT_B", ProjectID: "PRJ_1", Name: "B"})

	seed(t, db, &property.Unit{UnitID: "UNT_1", Type: "RESIDENTIAL", Status: property.UnitAvailable})
	seed(t, db, &property.Unit{UnitID: "UNT_2", Type: "RESIDENTIAL", Status: property.UnitSold, CustomerID: "CST_1"})
	seed(t, db, &property.Unit{UnitID: "UNT_3", Type: "COMMERCIAL", Status: property.UnitSold, CustomerID: "CST_2"})
	seed(t, db, &property.Unit{UnitID: "UNT_4", Type: "RESIDENTIAL", Status: property.UnitReturned})

	seed(t, db, &finance.Revenue{RevenueID: "REV_1", ProjectID: "PRJ_1", Amount: 70000, Date: now})
	seed(t, db, &finance.Revenue{RevenueID: "REV_2", ProjectID: "PRJ_1", Amount: 30000, Date: now})
	seed(t, db, &finance.Expense{ExpenseID: "EXP_1", ProjectID: "PRJ_1", Amount: 25000, Date: now})

	seed(t, db, &property.Installment{
		InstallmentID: "INS_1", UnitID: "UNT_2", Schedule: "MONTHLY",
		Amount: 15000, DueDate: now.Add(72 * time.Hour), Status: property.InstallmentUnpaid,
	})
	seed(t, db, &property.Installment{
		InstallmentID: "INS_2", UnitID: "UNT_2", Schedule: "MONTHLY",
		Amount: 15000, DueDate: now.Add(-72 * time.Hour), Status: property.InstallmentOverdue,
	})
	seed(t, db, &property.Installment{
		InstallmentID: "INS_3", UnitID: "UNT_3", Schedule: "MONTHLY",
		Amount: 20000, DueDate: now.Add(-24 * time.Hour), Status: property.InstallmentUnpaid,
	})

	seed(t, db, &transaction.Cashbox{CashboxID: "CSH_1", Name: "Main", InitialBalance: 5000, CurrentBalance: 12000})
	seed(t, db, &transaction.Cashbox{CashboxID: "CSH_2", Name: "Site", InitialBalance: 1000, CurrentBalance: 3000})

	stats, err := service.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}

	if stats.TotalProjects != 1 {
		t.Errorf("total projects = %d, want 1", stats.TotalProjects)
	}
	if stats.TotalPartners != 2 {
		t.Errorf("total partners = %d, want 2", stats.TotalPartners)
	}
	if stats.TotalUnits != 4 {
		t.Errorf("total units = %d, want 4", stats.TotalUnits)
	}
	if stats.AvailableUnits != 1 || stats.SoldUnits != 2 || stats.ReturnedUnits != 1 {
		t.Errorf("unit breakdown = %d/%d/%d, want 1/2/1",
			stats.AvailableUnits, stats.SoldUnits, stats.ReturnedUnits)
	}
	if math.Abs(stats.TotalRevenue-100000) > 0.01 {
		t.Errorf("total revenue = %v, want 100000", stats.TotalRevenue)
	}
	if math.Abs(stats.TotalExpenses-25000) > 0.01 {
		t.Errorf("total expenses = %v, want 25000", stats.TotalExpenses)
	}
	// Both UNPAID installments are pending regardless of due date.
	if math.Abs(stats.PendingPayments-35000) > 0.01 {
		t.Errorf("pending payments = %v, want 35000", stats.PendingPayments)
	}
	// INS_2 is stamped OVERDUE, INS_3 is unpaid past its due date.
	if stats.OverdueInstallments != 2 {
		t.Errorf("overdue installments = %d, want 2", stats.OverdueInstallments)
	}
	if math.Abs(stats.CashboxFunds-15000) > 0.01 {
		t.Errorf("cashbox funds = %v, want 15000", stats.CashboxFunds)
	}
	if stats.GeneratedAt.IsZero() {
		t.Error("generated at not set")
	}
}

func TestGetStatsEmptyDatabase(t *testing.T) {
	service := NewService(newTestDB(t))

	stats, err := service.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalProjects != 0 || stats.TotalRevenue != 0 || stats.CashboxFunds != 0 {
		t.Errorf("empty stats = %+v, want zeros", stats)
	}
}

func TestGetMonthlyCashflow(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db)

	jan := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	seed(t, db, &finance.Revenue{RevenueID: "REV_1", ProjectID: "PRJ_1", Amount: 50000, Date: jan})
	seed(t, db, &finance.Revenue{RevenueID: "REV_2", ProjectID: "PRJ_1", Amount: 20000, Date: jan})
	seed(t, db, &finance.Revenue{RevenueID: "REV_3", ProjectID: "PRJ_1", Amount: 10000, Date: mar})
	seed(t, db, &finance.Expense{ExpenseID: "EXP_1", ProjectID: "PRJ_1", Amount: 30000, Date: jan})
	seed(t, db, &finance.Expense{ExpenseID: "EXP_2", ProjectID: "PRJ_1", Amount: 5000, Date: feb})

	cashflow, err := service.GetMonthlyCashflow()
	if err != nil {
		t.Fatalf("GetMonthlyCashflow() error = %v", err)
	}
	if len(cashflow) != 3 {
		t.Fatalf("got %d months, want 3", len(cashflow))
	}

	want := []MonthlyCashflow{
		{Month: "2025-01", Revenue: 70000, Expenses: 30000},
		{Month: "2025-02", Revenue: 0, Expenses: 5000},
		{Month: "2025-03", Revenue: 10000, Expenses: 0},
	}
	for i, w := range want {
		got := cashflow[i]
		if got.Month != w.Month {
			t.Errorf("month[%d] = %q, want %q", i, got.Month, w.Month)
			continue
		}
		if math.Abs(got.Revenue-w.Revenue) > 0.01 {
			t.Errorf("%s revenue = %v, want %v", w.Month, got.Revenue, w.Revenue)
		}
		if math.Abs(got.Expenses-w.Expenses) > 0.01 {
			t.Errorf("%s expenses = %v, want %v", w.Month, got.Expenses, w.Expenses)
		}
	}
}
