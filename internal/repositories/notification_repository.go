package repositories

import (
	"time"

	"wedding_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationCriteria - фильтр центра уведомлений админа
type NotificationCriteria struct {
	UnreadOnly bool
	Page       int
	PageSize   int
}

// NotificationRow - событие журнала и его состояние прочтения для конкретного админа
type NotificationRow struct {
	models.TrackingEvent
	Read   bool       `gorm:"column:is_read"`
	ReadAt *time.Time `gorm:"column:read_at"`
}

// NotificationRepository - уведомления админов строятся поверх tracking_events;
// таблица notifications хранит только отметки о прочтении (одна на событие и админа).
type NotificationRepository interface {
	FindForAdmin(db *gorm.DB, weddingID, adminID string, criteria NotificationCriteria) ([]NotificationRow, int64, error)
	MarkAsRead(db *gorm.DB, weddingID, eventID, adminID string, at time.Time) error
	MarkAllAsRead(db *gorm.DB, weddingID, adminID string, at time.Time) (int64, error)
	GetUnreadCount(db *gorm.DB, weddingID, adminID string) (int64, error)
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

// базовый запрос: события свадьбы + LEFT JOIN отметки текущего админа
func (r *NotificationRepositoryImpl) baseQuery(db *gorm.DB, weddingID, adminID string, unreadOnly bool) *gorm.DB {
	query := db.Table("tracking_events AS te").
		Joins("LEFT JOIN notifications n ON n.event_id = te.id AND n.admin_id = ?", adminID).
		Where("te.wedding_id = ?", weddingID)
	if unreadOnly {
		query = query.Where("n.id IS NULL OR n.is_read = ?", false)
	}
	return query
}

func (r *NotificationRepositoryImpl) FindForAdmin(db *gorm.DB, weddingID, adminID string, criteria NotificationCriteria) ([]NotificationRow, int64, error) {
	var total int64
	if err := r.baseQuery(db, weddingID, adminID, criteria.UnreadOnly).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := criteria.Page, criteria.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var rows []NotificationRow
	err := r.baseQuery(db, weddingID, adminID, criteria.UnreadOnly).
		Select("te.*, COALESCE(n.is_read, ?) AS is_read, n.read_at AS read_at", false).
		Order("te.timestamp DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error
	return rows, total, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(db *gorm.DB, weddingID, eventID, adminID string, at time.Time) error {
	var count int64
	if err := db.Model(&models.TrackingEvent{}).Where("id = ? AND wedding_id = ?", eventID, weddingID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrTrackingEventNotFound
	}

	state := models.EventReadState{EventID: eventID, AdminID: adminID, Read: true, ReadAt: &at}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "admin_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_read", "read_at", "updated_at"}),
	}).Create(&state).Error
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(db *gorm.DB, weddingID, adminID string, at time.Time) (int64, error) {
	var marked int64
	err := db.Transaction(func(tx *gorm.DB) error {
		// существующие непрочитанные отметки
		res := tx.Model(&models.EventReadState{}).
			Where("admin_id = ? AND is_read = ?", adminID, false).
			Where("event_id IN (?)", tx.Model(&models.TrackingEvent{}).Select("id").Where("wedding_id = ?", weddingID)).
			Updates(map[string]any{"is_read": true, "read_at": at})
		if res.Error != nil {
			return res.Error
		}
		marked += res.RowsAffected

		// события без отметки
		var eventIDs []string
		err := tx.Model(&models.TrackingEvent{}).
			Where("wedding_id = ?", weddingID).
			Where("NOT EXISTS (SELECT 1 FROM notifications n WHERE n.event_id = tracking_events.id AND n.admin_id = ?)", adminID).
			Pluck("id", &eventIDs).Error
		if err != nil {
			return err
		}
		if len(eventIDs) == 0 {
			return nil
		}

		states := make([]models.EventReadState, 0, len(eventIDs))
		for _, id := range eventIDs {
			states = append(states, models.EventReadState{EventID: id, AdminID: adminID, Read: true, ReadAt: &at})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&states, 200).Error; err != nil {
			return err
		}
		marked += int64(len(states))
		return nil
	})
	return marked, err
}

func (r *NotificationRepositoryImpl) GetUnreadCount(db *gorm.DB, weddingID, adminID string) (int64, error) {
	var count int64
	err := r.baseQuery(db, weddingID, adminID, true).Count(&count).Error
	return count, err
}
