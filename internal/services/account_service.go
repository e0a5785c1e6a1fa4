// internal/services/account_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/storefront-backend/internal/database"
	"github.com/javajoker/storefront-backend/internal/models"
)

const dateLayout = "2006-01-02"

// AccountService manages users and their postal addresses.
type AccountService struct {
	db *gorm.DB
}

type AddressRequest struct {
	Line1       string `json:"line_1" validate:"required,max=252"`
	Line2       string `json:"line_2" validate:"max=252"`
	Province    string `json:"province" validate:"required,max=50"`
	City        string `json:"city" validate:"required,max=50"`
	District    string `json:"district" validate:"required,max=50"`
	Subdistrict string `json:"subdistrict" validate:"required,max=50"`
	ZipCode     uint   `json:"zip_code" validate:"required"`
}

type CreateUserRequest struct {
	IDNumber    string          `json:"id_number,omitempty" validate:"omitempty,id_number"`
	Username    string          `json:"username" validate:"required,username"`
	Password    string          `json:"password" validate:"required,min=8,max=72"`
	FirstName   string          `json:"first_name" validate:"required,max=100"`
	LastName    string          `json:"last_name" validate:"required,max=100"`
	Email       string          `json:"email" validate:"required,email,max=254"`
	DateOfBirth string          `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Address     *AddressRequest `json:"address,omitempty"`
}

type UpdateUserRequest struct {
	Username    *string         `json:"username,omitempty" validate:"omitempty,username"`
	Password    *string         `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	FirstName   *string         `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName    *string         `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Email       *string         `json:"email,omitempty" validate:"omitempty,email,max=254"`
	DateOfBirth *string         `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Address     *AddressRequest `json:"address,omitempty"`
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Authenticate checks a username/password pair and returns the user with
// the address loaded.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, validationError(CodeInvalidInput, "username and password are required", nil)
	}

	var user models.User
	if err := s.db.WithContext(ctx).Preload("Address").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, dbError(err, notFoundError(CodeUserNotFound, "incorrect username"))
	}

	if err := user.CheckPassword(password); err != nil {
		return nil, newError(ErrUnauthorized, CodeInvalidPassword, "incorrect password", nil)
	}

	return &user, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Preload("Address").Order("username").Find(&users).Error; err != nil {
		return nil, dbError(err, nil)
	}
	return users, nil
}

func (s *AccountService) GetUser(ctx context.Context, idNumber string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Address").First(&user, "id_number = ?", idNumber).Error; err != nil {
		return nil, dbError(err, notFoundError(CodeUserNotFound, "user not found"))
	}
	return &user, nil
}

func (s *AccountService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	dob, err := parseDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		IDNumber:    req.IDNumber,
		Username:    req.Username,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		DateOfBirth: dob,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	err = database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		if req.Address != nil {
			return saveAddress(tx, user.IDNumber, req.Address)
		}
		return nil
	})
	if err != nil {
		return nil, userWriteError(err)
	}

	return s.GetUser(ctx, user.IDNumber)
}

func (s *AccountService) UpdateUser(ctx context.Context, idNumber string, req *UpdateUserRequest) (*models.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id_number = ?", idNumber).Error; err != nil {
			return dbError(err, notFoundError(CodeUserNotFound, "user not found"))
		}

		if req.Username != nil {
			user.Username = *req.Username
		}
		if req.Password != nil {
			if err := user.SetPassword(*req.Password); err != nil {
				return err
			}
		}
		if req.FirstName != nil {
			user.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			user.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.Email != nil {
			user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
		}
		if req.DateOfBirth != nil {
			dob, err := parseDate(*req.DateOfBirth)
			if err != nil {
				return err
			}
			user.DateOfBirth = dob
		}

		if err := tx.Omit(clause.Associations).Save(&user).Error; err != nil {
			return err
		}
		if req.Address != nil {
			return saveAddress(tx, user.IDNumber, req.Address)
		}
		return nil
	})
	if err != nil {
		return nil, userWriteError(err)
	}

	return s.GetUser(ctx, idNumber)
}

// DeleteUser removes the user together with their address and orders.
func (s *AccountService) DeleteUser(ctx context.Context, idNumber string) error {
	result := s.db.WithContext(ctx).Delete(&models.User{}, "id_number = ?", idNumber)
	if result.Error != nil {
		return dbError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return notFoundError(CodeUserNotFound, "user not found")
	}
	return nil
}

// saveAddress creates or replaces the single address of a user.
func saveAddress(tx *gorm.DB, userID string, req *AddressRequest) error {
	addr := models.UserAddress{
		UserID:      userID,
		Line1:       strings.TrimSpace(req.Line1),
		Line2:       strings.TrimSpace(req.Line2),
		Province:    req.Province,
		City:        req.City,
		District:    req.District,
		Subdistrict: req.Subdistrict,
		ZipCode:     req.ZipCode,
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"line_1", "line_2", "province", "city", "district", "subdistrict", "zip_code", "updated_at",
		}),
	}).Create(&addr).Error
}

func userWriteError(err error) error {
	err = dbError(err, nil)
	var svcErr *Error
	if errors.As(err, &svcErr) && svcErr.Code == CodeAlreadyExists {
		return conflictError(CodeAlreadyExists, "username, email or id number is already taken", nil)
	}
	return err
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, newError(ErrValidation, CodeInvalidInput, "date_of_birth must be YYYY-MM-DD", err)
	}
	return t, nil
}
