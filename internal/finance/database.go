package finance

import (
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) CreateInvoice(invoice *Invoice) error {
	return d.db.Create(invoice).Error
}

func (d *Database) GetInvoice(invoiceID string) (*Invoice, error) {
	var invoice Invoice
	if err := d.db.Where("invoice_id = ?", invoiceID).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (d *Database) GetInvoices(status string) ([]Invoice, error) {
	query := d.db.Model(&Invoice{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []Invoice
	if err := query.Order("issue_date DESC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (d *Database) UpdateInvoice(invoice *Invoice) error {
	return d.db.Save(invoice).Error
}

func (d *Database) DeleteInvoice(invoiceID string) error {
	result := d.db.Where("invoice_id = ?", invoiceID).Delete(&Invoice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Database) CreateRevenue(revenue *Revenue) error {
	return d.db.Create(revenue).Error
}

func (d *Database) GetRevenue(revenueID string) (*Revenue, error) {
	var revenue Revenue
	if err := d.db.Where("revenue_id = ?", revenueID).First(&revenue).Error; err != nil {
		return nil, err
	}
	return &revenue, nil
}

func (d *Database) GetRevenues(filter LedgerFilter) ([]Revenue, error) {
	query := d.db.Model(&Revenue{})
	if filter.ProjectID != "" {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var revenues []Revenue
	if err := query.Order("date DESC").Find(&revenues).Error; err != nil {
		return nil, err
	}
	return revenues, nil
}

func (d *Database) UpdateRevenue(revenue *Revenue) error {
	return d.db.Save(revenue).Error
}

func (d *Database) DeleteRevenue(revenueID string) error {
	result := d.db.Where("revenue_id = ?", revenueID).Delete(&Revenue{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Database) CreateExpense(expense *Expense) error {
	return d.db.Create(expense).Error
}

func (d *Database) GetExpense(expenseID string) (*Expense, error) {
	var expense Expense
	if err := d.db.Where("expense_id = ?", expenseID).First(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (d *Database) GetExpenses(filter LedgerFilter) ([]Expense, error) {
	query := d.db.Model(&Expense{})
	if filter.ProjectID != "" {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var expenses []Expense
	if err := query.Order("date DESC").Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}

func (d *Database) UpdateExpense(expense *Expense) error {
	return d.db.Save(expense).Error
}

func (d *Database) DeleteExpense(expenseID string) error {
	result := d.db.Where("expense_id = ?", expenseID).Delete(&Expense{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
