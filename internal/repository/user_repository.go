package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"userportal/internal/model"
)

// UserRepository defines credential store operations. Lookups that match no
// record return gorm.ErrRecordNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByName(ctx context.Context, name string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.User, error)
	FindFirstAdmin(ctx context.Context) (*model.User, error)
	ListNonAdmins(ctx context.Context) ([]model.User, error)
	UpdateNameByEmail(ctx context.Context, email, name string) (*model.User, error)
	DeleteByName(ctx context.Context, name string) (*model.User, error)
	LinkExternalID(ctx context.Context, userID uint, externalID string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a record. A name collision surfaces as gorm.ErrDuplicatedKey.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) FindByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	return r.first(ctx, "external_id = ?", externalID)
}

// FindFirstAdmin returns the administrator with the lowest id.
func (r *userRepository) FindFirstAdmin(ctx context.Context) (*model.User, error) {
	return r.first(ctx, "role = ?", model.RoleAdmin)
}

// ListNonAdmins returns every record whose role is not administrator.
func (r *userRepository) ListNonAdmins(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Where("role <> ?", model.RoleAdmin).
		Order("id").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateNameByEmail sets the name of the first record with the given email and
// returns the updated record.
func (r *userRepository) UpdateNameByEmail(ctx context.Context, email, name string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ?", email).
			First(&user).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("name", name).Error
	})
	if err != nil {
		return nil, err
	}
	user.Name = name
	return &user, nil
}

// DeleteByName removes the record with the given name and returns it.
func (r *userRepository) DeleteByName(ctx context.Context, name string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", name).
			First(&user).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// LinkExternalID records the OAuth subject on an existing account.
func (r *userRepository) LinkExternalID(ctx context.Context, userID uint, externalID string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("external_id", externalID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) first(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
