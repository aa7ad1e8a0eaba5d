package models

// WeddingAdmin - пара или доверенное лицо, управляющее одной свадьбой.
type WeddingAdmin struct {
	BaseModel
	WeddingID    string `gorm:"type:varchar(36);not null;index" json:"wedding_id"`
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}

// WeddingPlanner - организатор, ведущий несколько свадеб.
type WeddingPlanner struct {
	BaseModel
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	CompanyName  string `json:"company_name"`
	PasswordHash string `gorm:"not null" json:"-"`
}
