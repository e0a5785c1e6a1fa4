// internal/services/views.go
package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/storefront-backend/internal/models"
)

type ImageView struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}

// ProductView is the public shape of a product. Brand and category are
// rendered by name.
type ProductView struct {
	ID          uuid.UUID   `json:"id"`
	Brand       string      `json:"brand"`
	Category    *string     `json:"category"`
	Name        string      `json:"name"`
	Price       string      `json:"price"`
	Quantity    int         `json:"quantity"`
	Images      []ImageView `json:"images"`
	AbsoluteURL string      `json:"absolute_url"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func NewProductView(p *models.Product) ProductView {
	v := ProductView{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.StringFixed(2),
		Quantity:    p.Quantity,
		Images:      make([]ImageView, 0, len(p.Images)),
		AbsoluteURL: p.AbsoluteURL(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Brand != nil {
		v.Brand = p.Brand.Name
	}
	if p.Category != nil {
		name := p.Category.Name
		v.Category = &name
	}
	for _, img := range p.Images {
		v.Images = append(v.Images, ImageView{ID: img.ID, URL: img.URL})
	}
	return v
}

func NewProductViews(products []models.Product) []ProductView {
	views := make([]ProductView, len(products))
	for i := range products {
		views[i] = NewProductView(&products[i])
	}
	return views
}

type AddressView struct {
	Line1       string `json:"line_1"`
	Line2       string `json:"line_2"`
	Province    string `json:"province"`
	City        string `json:"city"`
	District    string `json:"district"`
	Subdistrict string `json:"subdistrict"`
	ZipCode     uint   `json:"zip_code"`
}

// UserView is a user without credentials.
type UserView struct {
	IDNumber    string       `json:"id_number"`
	Username    string       `json:"username"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	FullName    string       `json:"full_name"`
	Email       string       `json:"email"`
	DateOfBirth string       `json:"date_of_birth"`
	Address     *AddressView `json:"address"`
}

func NewUserView(u *models.User) UserView {
	v := UserView{
		IDNumber:    u.IDNumber,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth.Format(dateLayout),
	}
	if a := u.Address; a != nil {
		v.Address = &AddressView{
			Line1:       a.Line1,
			Line2:       a.Line2,
			Province:    a.Province,
			City:        a.City,
			District:    a.District,
			Subdistrict: a.Subdistrict,
			ZipCode:     a.ZipCode,
		}
	}
	return v
}

func NewUserViews(users []models.User) []UserView {
	views := make([]UserView, len(users))
	for i := range users {
		views[i] = NewUserView(&users[i])
	}
	return views
}
