// internal/models/user.go
package models

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/javajoker/storefront-backend/internal/utils"
)

const IDNumberLength = 16

type User struct {
	IDNumber    string    `json:"id_number" gorm:"primaryKey;size:16;check:chk_users_id_number,id_number ~ '^[0-9]{16}$'"`
	Username    string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password    string    `json:"-" gorm:"size:100;not null"`
	FirstName   string    `json:"first_name" gorm:"size:100;not null"`
	LastName    string    `json:"last_name" gorm:"size:100;not null"`
	Email       string    `json:"email" gorm:"uniqueIndex;size:254;not null"`
	DateOfBirth time.Time `json:"date_of_birth" gorm:"type:date;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Address *UserAddress `json:"address,omitempty" gorm:"foreignKey:UserID;references:IDNumber;constraint:OnDelete:CASCADE"`
	Orders  []Order      `json:"orders,omitempty" gorm:"foreignKey:UserID;references:IDNumber;constraint:OnDelete:CASCADE"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// SetPassword stores the bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.IDNumber != "" {
		return nil
	}
	id, err := RandomIDNumber()
	if err != nil {
		return fmt.Errorf("failed to generate id number: %w", err)
	}
	u.IDNumber = id
	return nil
}

// RandomIDNumber returns a random 16-digit identity number with no leading zero.
func RandomIDNumber() (string, error) {
	return utils.RandomDigits(IDNumberLength)
}

type UserAddress struct {
	BaseModel
	UserID      string `json:"user_id" gorm:"size:16;not null;uniqueIndex"`
	Line1       string `json:"line_1" gorm:"column:line_1;size:252;not null"`
	Line2       string `json:"line_2" gorm:"column:line_2;size:252;not null"`
	Province    string `json:"province" gorm:"size:50;not null"`
	City        string `json:"city" gorm:"size:50;not null"`
	District    string `json:"district" gorm:"size:50;not null"`
	Subdistrict string `json:"subdistrict" gorm:"size:50;not null"`
	ZipCode     uint   `json:"zip_code" gorm:"not null"`
}
