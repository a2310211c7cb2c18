package model

import (
	"golang.org/x/crypto/bcrypt"
)

// Customer is a storefront account holder. Email, phone and CCCD uniqueness
// is enforced at registration time by CustomerService.
type Customer struct {
	BaseModel
	Email       string `gorm:"type:varchar(255);index;not null" json:"email" validate:"required,email"`
	Password    string `gorm:"type:varchar(255)" json:"-"`
	FullName    string `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	PhoneNumber string `gorm:"type:varchar(20);index" json:"phone_number" validate:"required,vn_phone"`
	CCCDNumber  string `gorm:"type:varchar(12);index" json:"cccd_number" validate:"cccd"`
	Address     string `gorm:"type:text" json:"address"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	// Set when the record was rebuilt from order history rather than a real
	// registration. Such accounts have no usable password.
	Recovered bool `gorm:"default:false" json:"recovered"`
}

// SetPassword hashes and stores the customer's password.
func (c *Customer) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.Password = string(hashed)
	return nil
}

// CheckPassword verifies a candidate password against the stored hash.
// Recovered accounts never authenticate.
func (c *Customer) CheckPassword(password string) bool {
	if c.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)) == nil
}
