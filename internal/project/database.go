package project

import (
	"fmt"

	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) CreateProject(project *Project) error {
	return d.db.Create(project).Error
}

func (d *Database) GetProject(projectID string) (*Project, error) {
	var project Project
	if err := d.db.Where("project_id = ?", projectID).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (d *Database) GetAllProjects() ([]Project, error) {
	var projects []Project
	if err := d.db.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (d *Database) UpdateProject(project *Project) error {
	return d.db.Save(project).Error
}

func (d *Database) DeleteProject(projectID string) error {
	result := d.db.Where("project_id = ?", projectID).Delete(&Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Database) CreatePartner(partner *Partner) error {
	return d.db.Create(partner).Error
}

func (d *Database) GetPartner(partnerID string) (*Partner, error) {
	var partner Partner
	if err := d.db.Where("partner_id = ?", partnerID).First(&partner).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (d *Database) GetAllPartners() ([]Partner, error) {
	var partners []Partner
	if err := d.db.Order("created_at DESC").Find(&partners).Error; err != nil {
		return nil, err
	}
	return partners, nil
}

// GetPartnersByProject returns every partner belonging to the given project
func (d *Database) GetPartnersByProject(projectID string) ([]Partner, error) {
	var partners []Partner
	if err := d.db.Where("project_id = ?", projectID).Find(&partners).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch partners: %w", err)
	}
	return partners, nil
}

func (d *Database) UpdatePartner(partner *Partner) error {
	return d.db.Save(partner).Error
}

func (d *Database) DeletePartner(partnerID string) error {
	result := d.db.Where("partner_id = ?", partnerID).Delete(&Partner{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
