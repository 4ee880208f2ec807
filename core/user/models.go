package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
)

// Role is the closed set of account roles. Role-string dispatch is deliberately
// not supported: unknown strings parse to RoleGuest which holds no permissions.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
	RoleGuest   Role = "guest"
)

// AllRoles are the roles an account can be created with; RoleGuest is the
// absence of a session, never a stored value.
var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

func ParseRole(s string) Role {
	switch Role(core.CleanString(s, true /* lower */)) {
	case RoleAdmin:
		return RoleAdmin
	case RoleTeacher:
		return RoleTeacher
	case RoleStudent:
		return RoleStudent
	case RoleParent:
		return RoleParent
	}
	return RoleGuest
}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Profile holds optional personal details attached to an identity record.
type Profile struct {
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Address   string    `json:"address,omitempty" bson:"address,omitempty"`
	Gender    string    `json:"gender,omitempty" bson:"gender,omitempty"`
	BirthDate time.Time `json:"birth_date,omitempty" bson:"birth_date,omitempty"`
}

type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	FullName     string    `json:"full_name" bson:"full_name"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	Role         Role      `json:"role" bson:"role"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	Profile      Profile   `json:"profile" bson:"profile"`
	PasswordHash []byte    `json:"-" bson:"password"`
	LastLogin    time.Time `json:"last_login" bson:"last_login"` // UTC
	CreatedAt    time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword reports whether pwd matches the stored digest. A malformed or
// empty digest fails verification, it never panics.
func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsParent() bool  { return u.Role == RoleParent }

// NewUser contains information needed to create a new User.
type NewUser struct {
	FullName        string  `json:"full_name" validate:"required"`
	Username        string  `json:"username" validate:"required,min=3,alphanum_"`
	Email           string  `json:"email" validate:"required,email"`
	Role            Role    `json:"role" validate:"required,role"`
	Password        string  `json:"password" validate:"required"`
	PasswordConfirm string  `json:"password_confirm" validate:"required,eqfield=Password"`
	Profile         Profile `json:"profile"`
}

func (nu *NewUser) Validate(ctx context.Context, svc Service) error {
	nu.FullName = core.CleanString(nu.FullName)
	nu.Username = core.CleanString(nu.Username, true /* lower */)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := core.Validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nu.Username, nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	FullName        string   `json:"full_name"`
	Username        string   `json:"username" validate:"omitempty,min=3,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Role            Role     `json:"role" validate:"omitempty,role"`
	IsActive        *bool    `json:"is_active"`
	Password        string   `json:"password" validate:"omitempty"`
	PasswordConfirm string   `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
	Profile         *Profile `json:"profile"`
}

func (uu *UpdateUser) Validate(ctx context.Context, origUsr User, svc Service) error {
	if name := core.CleanString(uu.FullName); name != "" {
		uu.FullName = name
	} else {
		uu.FullName = origUsr.FullName
	}

	if uname := core.CleanString(uu.Username, true /* lower */); uname != "" {
		uu.Username = uname
	} else {
		uu.Username = origUsr.Username
	}

	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if uu.Role == "" {
		uu.Role = origUsr.Role
	}

	if err := core.Validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, uu.Username, uu.Email, origUsr)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate() error { return core.Validate.Struct(rp) }

type QueryFilter struct {
	Search      string    `query:"search"`
	Role        Role      `query:"role"`
	IsActive    *bool     `query:"is_active"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.IsActive == nil && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

func init() {
	_ = core.Validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return Role(fl.Field().String()).Valid()
	})
	core.RegisterCustomTranslation("role", "invalid role")
}
