package models

import (
	"strings"
	"time"
)

const (
	UserTypeCustomer   = "customer"
	UserTypeContractor = "contractor"
)

type User struct {
	UserID          string    `json:"userid" bson:"userid"`
	Username        string    `json:"username" bson:"username"`
	Email           string    `json:"email" bson:"email"`
	Password        string    `json:"-" bson:"password"`
	UserType        string    `json:"userType" bson:"userType"`
	FullName        string    `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Mobile          string    `json:"mobile,omitempty" bson:"mobile,omitempty"`
	City            string    `json:"city,omitempty" bson:"city,omitempty"`
	CompanyName     string    `json:"companyName,omitempty" bson:"companyName,omitempty"`
	ServiceCategory string    `json:"serviceCategory,omitempty" bson:"serviceCategory,omitempty"`
	Experience      string    `json:"experience,omitempty" bson:"experience,omitempty"`
	IsEmailVerified bool      `json:"isEmailVerified" bson:"isEmailVerified"`
	IsPhoneVerified bool      `json:"isPhoneVerified" bson:"isPhoneVerified"`
	ProfileComplete bool      `json:"profileComplete" bson:"profileComplete"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
	LastLogin       time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
	RefreshToken    string    `json:"-" bson:"refreshtoken,omitempty"`
	RefreshExpiry   time.Time `json:"-" bson:"refreshexp,omitempty"`
}

// UserProfileResponse is the public view of a user returned to clients.
type UserProfileResponse struct {
	UserID          string    `json:"userid" bson:"userid"`
	Username        string    `json:"username" bson:"username"`
	Email           string    `json:"email" bson:"email"`
	UserType        string    `json:"userType" bson:"userType"`
	FullName        string    `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Mobile          string    `json:"mobile,omitempty" bson:"mobile,omitempty"`
	City            string    `json:"city,omitempty" bson:"city,omitempty"`
	CompanyName     string    `json:"companyName,omitempty" bson:"companyName,omitempty"`
	ServiceCategory string    `json:"serviceCategory,omitempty" bson:"serviceCategory,omitempty"`
	Experience      string    `json:"experience,omitempty" bson:"experience,omitempty"`
	IsEmailVerified bool      `json:"isEmailVerified" bson:"isEmailVerified"`
	IsPhoneVerified bool      `json:"isPhoneVerified" bson:"isPhoneVerified"`
	ProfileComplete bool      `json:"profileComplete" bson:"profileComplete"`
	LastLogin       time.Time `json:"last_login,omitempty" bson:"last_login,omitempty"`
}

// IsContractor reports whether the user registered as a contractor.
func (u *User) IsContractor() bool {
	return u.UserType == UserTypeContractor
}

// ComputeProfileComplete recomputes the profileComplete flag from the
// required profile fields. Contractors additionally need a company name
// and a service category before they can bid.
func (u *User) ComputeProfileComplete() bool {
	if strings.TrimSpace(u.FullName) == "" ||
		strings.TrimSpace(u.Mobile) == "" ||
		strings.TrimSpace(u.City) == "" {
		return false
	}
	if u.IsContractor() {
		return strings.TrimSpace(u.CompanyName) != "" &&
			strings.TrimSpace(u.ServiceCategory) != ""
	}
	return true
}
