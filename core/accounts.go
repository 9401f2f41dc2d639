package core

import (
	"errors"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MohsenMaaleki/windsightai/core/models"
)

const bcryptCost = 12

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Report json field names in validation messages.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterAccount validates the input, hashes the password and creates the
// account. Uniqueness collisions are reported with the colliding field.
func RegisterAccount(db *gorm.DB, in RegisterInput) (*models.Account, error) {
	if err := validate.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return nil, &ValidationError{Message: formatFieldError(ve[0])}
		}
		return nil, &ValidationError{Message: err.Error()}
	}

	if msg := checkPasswordStrength(in.Password); msg != "" {
		return nil, &ValidationError{Message: msg}
	}

	// Pre-check so the conflict response can name the field; the unique
	// indexes remain the real guard.
	var existing models.Account
	err := db.Where("username = ?", in.Username).Or("email = ?", in.Email).
		First(&existing).Error
	if err == nil {
		field := "email"
		if existing.Username == in.Username {
			field = "username"
		}
		return nil, &ConflictError{Field: field, Message: field + " already exists"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	account := models.Account{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := db.Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Message: "username or email already exists"}
		}
		return nil, err
	}

	return &account, nil
}

// Authenticate looks up the account and compares the bcrypt hash. Unknown
// usernames and wrong passwords return the same AuthError. On success the
// last-login timestamp is updated.
func Authenticate(db *gorm.DB, username, password string) (*models.Account, error) {
	var account models.Account
	if err := db.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &AuthError{}
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, &AuthError{}
	}

	now := time.Now()
	if err := db.Model(&account).Update("last_login", now).Error; err != nil {
		return nil, err
	}
	account.LastLogin = &now

	return &account, nil
}

// checkPasswordStrength enforces the minimum policy: at least 8 characters
// with a letter, a digit and a punctuation character. Returns a message
// describing the first unmet rule, or "" when the password passes.
func checkPasswordStrength(password string) string {
	if len(password) < 8 {
		return "password must be at least 8 characters"
	}
	var hasLetter, hasDigit, hasPunct bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasPunct = true
		}
	}
	switch {
	case !hasLetter:
		return "password must contain a letter"
	case !hasDigit:
		return "password must contain a digit"
	case !hasPunct:
		return "password must contain a punctuation character"
	}
	return ""
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	}
	return fe.Field() + " failed validation for '" + fe.Tag() + "'"
}
