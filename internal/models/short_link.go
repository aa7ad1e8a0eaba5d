package models

type ShortLink struct {
	BaseModel
	Code      string `gorm:"type:varchar(16);uniqueIndex;not null" json:"code"`
	TargetURL string `gorm:"not null" json:"target_url"`
	FamilyID  string `gorm:"type:varchar(36);index" json:"family_id"`
}
