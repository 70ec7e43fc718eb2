package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/optiretail/optiretail/internal/platform/lifecycle"
	"github.com/optiretail/optiretail/internal/platform/resource"
)

const (
	EntityUser    lifecycle.Entity = "user"
	EntityPatient lifecycle.Entity = "patient"
)

// User is a staff member. Authentication lives outside this service; the
// role here is what tokens are issued with.
type User struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name" mapstructure:"name"`
	Email     string    `db:"email" json:"email" mapstructure:"email"`
	Role      string    `db:"role" json:"role" mapstructure:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (u *User) Identifier() string { return u.ID.String() }

func (u *User) ToResource(_ resource.Includes) resource.Document {
	return resource.Document{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// Patient maps to the patients table.
type Patient struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	FirstName      string     `db:"first_name" json:"first_name" mapstructure:"first_name"`
	LastName       string     `db:"last_name" json:"last_name" mapstructure:"last_name"`
	Email          *string    `db:"email" json:"email,omitempty" mapstructure:"email"`
	Phone          *string    `db:"phone" json:"phone,omitempty" mapstructure:"phone"`
	DocumentNumber *string    `db:"document_number" json:"document_number,omitempty" mapstructure:"document_number"`
	BirthDate      *time.Time `db:"birth_date" json:"birth_date,omitempty" mapstructure:"birth_date"`
	Address        *string    `db:"address" json:"address,omitempty" mapstructure:"address"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

func (p *Patient) Identifier() string { return p.ID.String() }

// FullName joins first and last name.
func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}

func (p *Patient) ToResource(_ resource.Includes) resource.Document {
	doc := resource.Document{
		"id":              p.ID,
		"first_name":      p.FirstName,
		"last_name":       p.LastName,
		"full_name":       p.FullName(),
		"email":           p.Email,
		"phone":           p.Phone,
		"document_number": p.DocumentNumber,
		"address":         p.Address,
		"created_at":      p.CreatedAt,
		"updated_at":      p.UpdatedAt,
	}
	if p.BirthDate != nil {
		doc["birth_date"] = p.BirthDate.Format("2006-01-02")
	} else {
		doc["birth_date"] = nil
	}
	return doc
}
