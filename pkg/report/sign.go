package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// Signer produces armored detached OpenPGP signatures.
type Signer struct {
	entity *openpgp.Entity
}

// NewSigner reads the first private key in an armored keyring. An encrypted
// key is unlocked with passphrase.
func NewSigner(r io.Reader, passphrase []byte) (*Signer, error) {
	entities, err := openpgp.ReadArmoredKeyRing(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}
	for _, e := range entities {
		if e.PrivateKey == nil {
			continue
		}
		if e.PrivateKey.Encrypted {
			if len(passphrase) == 0 {
				return nil, errors.New("signing key is encrypted and no passphrase was given")
			}
			if err := e.DecryptPrivateKeys(passphrase); err != nil {
				return nil, fmt.Errorf("failed to decrypt signing key: %w", err)
			}
		}
		return &Signer{entity: e}, nil
	}
	return nil, errors.New("no private key found in signing keyring")
}

// LoadSigner reads a signing key file. The passphrase, if any, comes from
// BGUARD_REPORT_SIGNING_PASSPHRASE.
func LoadSigner(path string) (*Signer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open signing key: %w", err)
	}
	defer func() { _ = f.Close() }()
	return NewSigner(f, []byte(os.Getenv("BGUARD_REPORT_SIGNING_PASSPHRASE")))
}

// KeyID returns the signing key id in hex.
func (s *Signer) KeyID() string {
	return s.entity.PrimaryKey.KeyIdString()
}

// Sign returns an armored detached signature over data.
func (s *Signer) Sign(data []byte) (string, error) {
	var buf bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&buf, s.entity, bytes.NewReader(data), nil); err != nil {
		return "", fmt.Errorf("failed to sign report: %w", err)
	}
	return buf.String(), nil
}
