package property

import (
	"time"

	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) CreateCustomer(customer *Customer) error {
	return d.db.Create(customer).Error
}

func (d *Database) GetCustomer(customerID string) (*Customer, error) {
	var customer Customer
	if err := d.db.Where("customer_id = ?", customerID).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (d *Database) GetAllCustomers() ([]Customer, error) {
	var customers []Customer
	if err := d.db.Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (d *Database) UpdateCustomer(customer *Customer) error {
	return d.db.Save(customer).Error
}

func (d *Database) DeleteCustomer(customerID string) error {
	result := d.db.Where("customer_id = ?", customerID).Delete(&Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Database) CreateUnit(unit *Unit) error {
	return d.db.Create(unit).Error
}

func (d *Database) GetUnit(unitID string) (*Unit, error) {
	var unit Unit
	if err := d.db.Where("unit_id = ?", unitID).First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (d *Database) GetUnits(status string) ([]Unit, error) {
	query := d.db.Model(&Unit{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var units []Unit
	if err := query.Order("created_at DESC").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (d *Database) UpdateUnit(unit *Unit) error {
	return d.db.Save(unit).Error
}

func (d *Database) DeleteUnit(unitID string) error {
	result := d.db.Where("unit_id = ?", unitID).Delete(&Unit{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Database) CreateInstallment(installment *Installment) error {
	return d.db.Create(installment).Error
}

func (d *Database) GetInstallment(installmentID string) (*Installment, error) {
	var installment Installment
	if err := d.db.Where("installment_id = ?", installmentID).First(&installment).Error; err != nil {
		return nil, err
	}
	return &installment, nil
}

func (d *Database) GetInstallmentsByUnit(unitID string) ([]Installment, error) {
	var installments []Installment
	if err := d.db.Where("unit_id = ?", unitID).Order("due_date").Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

// GetOverdueInstallments returns installments already marked overdue plus
// unpaid ones whose due date has passed
func (d *Database) GetOverdueInstallments(now time.Time) ([]Installment, error) {
	var installments []Installment
	err := d.db.
		Where("status = ? OR (status = ? AND due_date < ?)", InstallmentOverdue, InstallmentUnpaid, now).
		Order("due_date").
		Find(&installments).Error
	if err != nil {
		return nil, err
	}
	return installments, nil
}

func (d *Database) GetAllInstallments() ([]Installment, error) {
	var installments []Installment
	if err := d.db.Order("due_date").Find(&installments).Error; err != nil {
		return nil, err
	}
	return installments, nil
}

func (d *Database) UpdateInstallment(installment *Installment) error {
	return d.db.Save(installment).Error
}

func (d *Database) DeleteInstallment(installmentID string) error {
	result := d.db.Where("installment_id = ?", installmentID).Delete(&Installment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Database) CreateUnitPartner(unitPartner *UnitPartner) error {
	return d.db.Create(unitPartner).Error
}

func (d *Database) GetUnitPartnersByUnit(unitID string) ([]UnitPartner, error) {
	var unitPartners []UnitPartner
	if err := d.db.Where("unit_id = ?", unitID).Find(&unitPartners).Error; err != nil {
		return nil, err
	}
	return unitPartners, nil
}

func (d *Database) GetUnitPartnersByPartner(partnerID string) ([]UnitPartner, error) {
	var unitPartners []UnitPartner
	if err := d.db.Where("partner_id = ?", partnerID).Find(&unitPartners).Error; err != nil {
		return nil, err
	}
	return unitPartners, nil
}

func (d *Database) DeleteUnitPartner(unitPartnerID string) error {
	result := d.db.Where("unit_partner_id = ?", unitPartnerID).Delete(&UnitPartner{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateReturnedUnit records the return and flips the unit to RETURNED in the
// same transaction
func (d *Database) CreateReturnedUnit(ret *ReturnedUnit) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ret).Error; err != nil {
			return err
		}

		return tx.Model(&Unit{}).
			Where("unit_id = ?", ret.UnitID).
			Updates(map[string]interface{}{
				"status":     UnitReturned,
				"updated_at": time.Now(),
			}).Error
	})
}

func (d *Database) GetReturnedUnit(returnID string) (*ReturnedUnit, error) {
	var ret ReturnedUnit
	if err := d.db.Where("return_id = ?", returnID).First(&ret).Error; err != nil {
		return nil, err
	}
	return &ret, nil
}

func (d *Database) GetAllReturnedUnits() ([]ReturnedUnit, error) {
	var returns []ReturnedUnit
	if err := d.db.Order("created_at DESC").Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

func (d *Database) UpdateReturnedUnit(ret *ReturnedUnit) error {
	return d.db.Save(ret).Error
}

func (d *Database) CreatePayment(payment *Payment) error {
	return d.db.Create(payment).Error
}

func (d *Database) GetPayment(paymentID string) (*Payment, error) {
	var payment Payment
	if err := d.db.Where("payment_id = ?", paymentID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPayments lists payments matching the filter, newest first
func (d *Database) GetPayments(filter PaymentFilter) ([]Payment, error) {
	query := d.db.Model(&Payment{})
	if filter.UnitID != "" {
		query = query.Where("unit_id = ?", filter.UnitID)
	}
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}

	var payments []Payment
	if err := query.Order("date DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// MarkOverdueInstallments flips unpaid installments past their due date to
// OVERDUE and reports how many rows changed
func (d *Database) MarkOverdueInstallments(now time.Time) (int64, error) {
	result := d.db.Model(&Installment{}).
		Where("status = ? AND due_date < ?", InstallmentUnpaid, now).
		Updates(map[string]interface{}{
			"status":     InstallmentOverdue,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}
