package session

import (
	"crypto/subtle"

	"frontdesk/internal/config"
	"frontdesk/internal/models"
)

// CredentialVerifier checks a credential pair and returns the matching
// staff identity, already stripped of secrets. The static demo list is the
// default implementation; a backend-driven verifier slots in here without
// touching the store.
type CredentialVerifier interface {
	Verify(email, password string) (*models.User, bool)
}

// StaticVerifier matches against a fixed in-memory credential list.
type StaticVerifier struct {
	credentials []config.Credential
}

func NewStaticVerifier(credentials []config.Credential) *StaticVerifier {
	if len(credentials) == 0 {
		credentials = config.DemoCredentials()
	}
	return &StaticVerifier{credentials: credentials}
}

func (v *StaticVerifier) Verify(email, password string) (*models.User, bool) {
	for _, cred := range v.credentials {
		emailMatch := subtle.ConstantTimeCompare([]byte(cred.Email), []byte(email)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(cred.Password), []byte(password)) == 1
		if emailMatch && passMatch {
			// The returned user carries no credential material
			return &models.User{
				ID:      cred.ID,
				Name:    cred.Name,
				Role:    models.Role(cred.Role),
				HotelID: cred.HotelID,
			}, true
		}
	}
	return nil, false
}
