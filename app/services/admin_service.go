package services

import (
	"errors"

	"github.com/Kiko4ko1/magnetsbg-store/pkg/auth"
)

// ErrInvalidCredentials is returned by Login for a wrong email or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminService checks back-office credentials. The checker comes from
// config: bcrypt when ADMIN_PASSWORD_HASH is set, plain comparison
// otherwise.
type AdminService struct {
	checker auth.CredentialChecker
}

func NewAdminService(checker auth.CredentialChecker) *AdminService {
	return &AdminService{checker: checker}
}

// Login verifies the credentials and returns the admin email on success.
func (s *AdminService) Login(email, password string) (string, error) {
	if !s.checker.Check(email, password) {
		return "", ErrInvalidCredentials
	}
	return email, nil
}
