package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// BeforeCreate выставляет UUID, если он не задан вызывающим кодом.
// Генерация на стороне приложения работает одинаково для postgres, mysql и sqlite.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// All - модели для AutoMigrate в порядке зависимостей
func All() []any {
	return []any{
		&Theme{},
		&WeddingPlanner{},
		&Wedding{},
		&WeddingAdmin{},
		&Family{},
		&FamilyMember{},
		&MessageTemplate{},
		&TrackingEvent{},
		&EventReadState{},
		&ShortLink{},
		&GalleryPhoto{},
	}
}
