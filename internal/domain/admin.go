package domain

import (
	"context"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

type AdminCredentials struct {
	Username string
	Password string
}

// AdminAuthenticator checks staff credentials for administrative operations.
type AdminAuthenticator interface {
	Authenticate(ctx context.Context, creds AdminCredentials) error
}

// StaticAdmin is the single admin record the service is configured with. Only the
// bcrypt hash of the password is kept in memory.
type StaticAdmin struct {
	username string
	password password
}

type password struct {
	Hash []byte
}

func (p *password) Set(plaintext string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return err
	}

	p.Hash = hash

	return nil
}

func (p *password) Matches(plaintext string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.Hash, []byte(plaintext))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}

// NewStaticAdmin hashes plaintext with the given bcrypt cost.
func NewStaticAdmin(username, plaintext string, cost int) (*StaticAdmin, error) {
	if username == "" || plaintext == "" {
		return nil, errors.New("admin username and password must be set")
	}

	admin := &StaticAdmin{username: username}

	err := admin.password.Set(plaintext, cost)
	if err != nil {
		return nil, err
	}

	return admin, nil
}

func (a *StaticAdmin) Authenticate(_ context.Context, creds AdminCredentials) error {
	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(a.username)) == 1

	// always run the hash comparison so a wrong username costs the same time
	passOK, err := a.password.Matches(creds.Password)
	if err != nil {
		return err
	}

	if !userOK || !passOK {
		return ErrUnauthorized
	}

	return nil
}
