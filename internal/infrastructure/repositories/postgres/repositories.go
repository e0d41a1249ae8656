package postgres

import (
	"context"

	"midway/internal/core/domain"
	"midway/internal/core/ports"

	"gorm.io/gorm"
)

type GormUserRepository struct {
	*GormRepository[*domain.User]
}

func NewGormUserRepository(db *gorm.DB) ports.UserRepository {
	return &GormUserRepository{
		GormRepository: NewGormRepository(db, func() *domain.User { return &domain.User{} }, Columns{
			OwnerColumn: "id",
			Status:      StatusColumn("role"),
		}),
	}
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func NewLocationRepository(db *gorm.DB) ports.Repository[*domain.Location] {
	return NewGormRepository(db, func() *domain.Location { return &domain.Location{} }, Columns{
		Status: StatusColumn("type"),
	})
}

func NewServiceRepository(db *gorm.DB) ports.Repository[*domain.Service] {
	return NewGormRepository(db, func() *domain.Service { return &domain.Service{} }, Columns{
		Status: StatusFlag("active", "ACTIVE", "INACTIVE"),
	})
}

func NewTaskRepository(db *gorm.DB) ports.Repository[*domain.Task] {
	return NewGormRepository(db, func() *domain.Task { return &domain.Task{} }, Columns{
		OwnerColumn: "assignee_id",
		Status:      StatusColumn("status"),
	})
}

func NewBookingRepository(db *gorm.DB) ports.Repository[*domain.Booking] {
	return NewGormRepository(db, func() *domain.Booking { return &domain.Booking{} }, Columns{
		OwnerColumn: "client_id",
		Status:      StatusColumn("status"),
	})
}

func NewPaymentRepository(db *gorm.DB) ports.Repository[*domain.Payment] {
	return NewGormRepository(db, func() *domain.Payment { return &domain.Payment{} }, Columns{
		OwnerColumn: "client_id",
		Status:      StatusColumn("status"),
	})
}

func NewFeedbackRepository(db *gorm.DB) ports.Repository[*domain.Feedback] {
	return NewGormRepository(db, func() *domain.Feedback { return &domain.Feedback{} }, Columns{
		OwnerColumn: "client_id",
	})
}

func NewDocumentRepository(db *gorm.DB) ports.Repository[*domain.Document] {
	return NewGormRepository(db, func() *domain.Document { return &domain.Document{} }, Columns{
		OwnerColumn: "user_id",
		Status:      StatusColumn("type"),
	})
}

func NewNotificationRepository(db *gorm.DB) ports.Repository[*domain.Notification] {
	return NewGormRepository(db, func() *domain.Notification { return &domain.Notification{} }, Columns{
		OwnerColumn: "user_id",
		Status:      StatusFlag(`"read"`, "READ", "UNREAD"),
	})
}

func NewInventoryRepository(db *gorm.DB) ports.Repository[*domain.InventoryItem] {
	return NewGormRepository(db, func() *domain.InventoryItem { return &domain.InventoryItem{} }, Columns{
		Status: StatusColumn("status"),
	})
}
