package validator

import (
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"users-service/internal/domain/user"
	"users-service/internal/interface/api/rest/dto/auth"
	userDTO "users-service/internal/interface/api/rest/dto/user"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 128

	maxUsernameLen = 64
)

// NormalizeUsername canonicalizes a username before validation and
// lookup: trim, NFD, strip combining marks, NFC. The username is a
// national ID number, so lookups must not depend on how the client
// composed the string.
func NormalizeUsername(s string) string {
	s = strings.TrimSpace(s)
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, _ = transform.String(t, s)
	return s
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }

func ValidateCreateUser(r userDTO.CreateRequest) map[string]string {
	errs := make(map[string]string)

	username := NormalizeUsername(r.Username)
	email := strings.ToLower(strings.TrimSpace(r.Email))
	recovery := strings.ToLower(strings.TrimSpace(r.RecoveryEmail))

	if username == "" {
		errs["username"] = "username is required"
	} else if utf8.RuneCountInString(username) > maxUsernameLen {
		errs["username"] = "username is too long"
	}

	if email == "" {
		errs["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "invalid email format"
	}

	// optional; the service derives it from email when absent
	if recovery != "" {
		if _, err := mail.ParseAddress(recovery); err != nil {
			errs["email_recuperacion"] = "invalid email format"
		}
	}

	if msg := validatePassword(r.Password); msg != "" {
		errs["password"] = msg
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateLogin(r auth.LoginRequest) map[string]string {
	errs := make(map[string]string)

	if NormalizeUsername(r.Username) == "" {
		errs["username"] = "username is required"
	}

	if msg := validatePassword(r.Password); msg != "" {
		errs["password"] = msg
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ValidateUpdateUser(r userDTO.UpdateRequest) map[string]string {
	errs := make(map[string]string)

	if r.Username != nil && NormalizeUsername(*r.Username) == "" {
		errs["username"] = "username must not be empty"
	}
	if r.Email != nil {
		if _, err := mail.ParseAddress(strings.TrimSpace(*r.Email)); err != nil {
			errs["email"] = "invalid email format"
		}
	}
	if r.RecoveryEmail != nil {
		if _, err := mail.ParseAddress(strings.TrimSpace(*r.RecoveryEmail)); err != nil {
			errs["email_recuperacion"] = "invalid email format"
		}
	}
	if r.Password != nil {
		if msg := validatePassword(*r.Password); msg != "" {
			errs["password"] = msg
		}
	}
	if r.Role != nil && !user.Role(*r.Role).Valid() {
		errs["rol"] = "rol must be one of: sudo, admin, invite"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validatePassword(password string) string {
	if strings.TrimSpace(password) == "" {
		return "password is required"
	}
	if l := utf8.RuneCountInString(password); l < minPasswordLen || l > maxPasswordLen {
		return "password length must be 8–128 characters"
	}
	return ""
}

func ParseSkip(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	skip, err := strconv.Atoi(s)
	if err != nil || skip < 0 {
		return 0, errors.New("invalid skip")
	}
	return skip, nil
}

func ParseLimit(s string) (int, error) {
	if s == "" {
		return 10, nil
	}
	limit, err := strconv.Atoi(s)
	if err != nil || limit <= 0 {
		return 0, errors.New("invalid limit")
	}
	return limit, nil
}

// ParseOrder accepts ASC/DESC in any case; empty defaults to ASC.
func ParseOrder(s string) (user.Order, error) {
	if s == "" {
		return user.OrderAsc, nil
	}
	order := user.Order(strings.ToUpper(s))
	if !order.Valid() {
		return "", errors.New("order must be ASC or DESC")
	}
	return order, nil
}

func ParseUserID(s string) (user.ID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("user_id must be a positive integer")
	}
	return user.ID(id), nil
}
