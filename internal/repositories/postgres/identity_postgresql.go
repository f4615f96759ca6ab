package postgres

import (
	"context"

	"github.com/SAP-F-2025/override-service/internal/models"
	"gorm.io/gorm"
)

// User and group stores are read-only here: the override service only needs
// to resolve whether an imported id denotes a real user or course group.

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) *UserPostgreSQL {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := u.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

type GroupPostgreSQL struct {
	db *gorm.DB
}

func NewGroupPostgreSQL(db *gorm.DB) *GroupPostgreSQL {
	return &GroupPostgreSQL{db: db}
}

func (g *GroupPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	var group models.Group
	if err := g.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (g *GroupPostgreSQL) ExistsInCourse(ctx context.Context, id, courseID uint) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.Group{}).
		Where("id = ? AND course_id = ?", id, courseID).Count(&count).Error
	return count > 0, err
}
