package billing

import (
	"regexp"
	"time"
)

// Client represents a billable customer. A client owns zero or more
// invoices by reference only; deleting a client does not cascade to
// its invoices.
type Client struct {
	BaseEntity
	Name        string `gorm:"type:varchar(200);not null" json:"name"`
	Email       string `gorm:"type:varchar(200);not null;index" json:"email"`
	CompanyName string `gorm:"type:varchar(200)" json:"company_name,omitempty"`
	Address     string `gorm:"type:text" json:"address,omitempty"`
	PhoneNumber string `gorm:"type:varchar(50)" json:"phone_number,omitempty"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client with required fields
func NewClient(name, email string) (*Client, error) {
	if err := validateClientName(name); err != nil {
		return nil, err
	}
	if err := validateClientEmail(email); err != nil {
		return nil, err
	}

	return &Client{
		BaseEntity: NewBaseEntity(),
		Name:       name,
		Email:      email,
	}, nil
}

// Update overwrites the client's mutable fields
func (c *Client) Update(name, email, companyName, address, phoneNumber string) error {
	if err := validateClientName(name); err != nil {
		return err
	}
	if err := validateClientEmail(email); err != nil {
		return err
	}

	c.Name = name
	c.Email = email
	c.CompanyName = companyName
	c.Address = address
	c.PhoneNumber = phoneNumber
	c.UpdatedAt = time.Now()

	return nil
}

func validateClientName(name string) error {
	if name == "" {
		return NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 200 {
		return NewDomainError("INVALID_NAME", "Client name cannot exceed 200 characters")
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateClientEmail(email string) error {
	if email == "" {
		return NewDomainError("INVALID_EMAIL", "Client email cannot be empty")
	}
	if len(email) > 200 {
		return NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}
