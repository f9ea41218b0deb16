package webauthn

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Authenticator data flags per the WebAuthn spec.
const (
	flagUserPresent      = 0x01
	flagUserVerified     = 0x04
	flagAttestedCredData = 0x40
)

// coseAlgES256 is the COSE identifier for ECDSA with P-256 and SHA-256.
const coseAlgES256 = -7

// ctapEncMode encodes CBOR in the canonical form CTAP2 requires: sorted map
// keys, shortest-form integers.
var ctapEncMode, _ = cbor.EncOptions{
	Sort: cbor.SortCanonical,
}.EncMode()

// SoftAuthenticator is a software ES256 authenticator. It produces packed
// self-attestation objects: the credential's own key signs the attestation,
// so no device certificate chain is involved. Each MakeCredential call
// generates a fresh P-256 key; the flow only registers, never asserts, so
// the key is not retained.
type SoftAuthenticator struct {
	// Origin is the web origin written into the collected client data. It
	// must match the portal origin or the server will reject the ceremony.
	Origin string

	// AAGUID identifies the authenticator model. The zero value is what
	// self-attestation conventionally reports.
	AAGUID [16]byte

	signCount uint32
}

// NewSoftAuthenticator creates a SoftAuthenticator for the given origin,
// e.g. "https://idportal.example.ac.jp".
func NewSoftAuthenticator(origin string) *SoftAuthenticator {
	return &SoftAuthenticator{Origin: origin}
}

// MakeCredential implements Authenticator. It parses the creation options,
// generates a credential key pair, and returns the standard
// credential-creation response JSON.
func (a *SoftAuthenticator) MakeCredential(optionsJSON []byte) ([]byte, error) {
	opts, err := parseCreationOptions(optionsJSON)
	if err != nil {
		return nil, err
	}
	if !supportsES256(opts.PubKeyCredParams) {
		// The portal only ever offers ES256; anything else means the
		// challenge is not for us.
		return nil, nil
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("webauthn: generate credential key: %w", err)
	}

	credID := make([]byte, 32)
	if _, err := rand.Read(credID); err != nil {
		return nil, fmt.Errorf("webauthn: generate credential id: %w", err)
	}

	coseKey, err := buildCOSEPublicKeyES256(key)
	if err != nil {
		return nil, err
	}

	a.signCount++
	authData := marshalAuthenticatorData(opts.RP.ID, a.AAGUID, a.signCount, credID, coseKey)

	cd, err := json.Marshal(clientData{
		Type:      "webauthn.create",
		Challenge: opts.Challenge,
		Origin:    a.Origin,
	})
	if err != nil {
		return nil, fmt.Errorf("webauthn: marshal client data: %w", err)
	}
	cdHash := sha256.Sum256(cd)

	// Self attestation: sign authData || clientDataHash with the credential
	// key itself.
	toSign := sha256.Sum256(append(append([]byte{}, authData...), cdHash[:]...))
	sig, err := ecdsa.SignASN1(rand.Reader, key, toSign[:])
	if err != nil {
		return nil, fmt.Errorf("webauthn: sign attestation: %w", err)
	}

	attObj, err := ctapEncMode.Marshal(attestationObject{
		Fmt:      "packed",
		AttStmt:  attestationStatement{Alg: coseAlgES256, Sig: sig},
		AuthData: authData,
	})
	if err != nil {
		return nil, fmt.Errorf("webauthn: encode attestation object: %w", err)
	}

	enc := base64.RawURLEncoding
	resp := CredentialCreationResponse{
		ID:    enc.EncodeToString(credID),
		RawID: enc.EncodeToString(credID),
		Type:  "public-key",
		Response: AttestationResponse{
			ClientDataJSON:    enc.EncodeToString(cd),
			AttestationObject: enc.EncodeToString(attObj),
		},
	}
	out, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("webauthn: marshal credential response: %w", err)
	}
	return out, nil
}

// attestationObject is the WebAuthn attestation envelope. String keys per
// the WebAuthn (not CTAP2) encoding.
type attestationObject struct {
	Fmt      string               `cbor:"fmt"`
	AttStmt  attestationStatement `cbor:"attStmt"`
	AuthData []byte               `cbor:"authData"`
}

type attestationStatement struct {
	Alg int    `cbor:"alg"`
	Sig []byte `cbor:"sig"`
}

// parseCreationOptions accepts the challenge either wrapped in the standard
// {"publicKey": {...}} envelope or as the bare options dictionary.
func parseCreationOptions(optionsJSON []byte) (*PublicKeyCredentialCreationOptions, error) {
	var wrapped CreationOptions
	if err := json.Unmarshal(optionsJSON, &wrapped); err != nil {
		return nil, fmt.Errorf("webauthn: parse creation options: %w", err)
	}
	if wrapped.PublicKey.Challenge != "" {
		return &wrapped.PublicKey, nil
	}
	var bare PublicKeyCredentialCreationOptions
	if err := json.Unmarshal(optionsJSON, &bare); err != nil {
		return nil, fmt.Errorf("webauthn: parse creation options: %w", err)
	}
	if bare.Challenge == "" {
		return nil, fmt.Errorf("webauthn: creation options carry no challenge")
	}
	return &bare, nil
}

func supportsES256(params []CredentialParameter) bool {
	if len(params) == 0 {
		// Older portal firmware omits the list; ES256 is its only
		// algorithm.
		return true
	}
	for _, p := range params {
		if p.Type == "public-key" && p.Alg == coseAlgES256 {
			return true
		}
	}
	return false
}

// marshalAuthenticatorData assembles the authenticator data byte layout:
// rpIdHash (32) || flags (1) || signCount (4) || aaguid (16) ||
// credIdLen (2) || credId || COSE public key.
func marshalAuthenticatorData(rpID string, aaguid [16]byte, signCount uint32, credID, coseKey []byte) []byte {
	rpIDHash := sha256.Sum256([]byte(rpID))

	var buf bytes.Buffer
	buf.Write(rpIDHash[:])
	buf.WriteByte(flagUserPresent | flagUserVerified | flagAttestedCredData)
	binary.Write(&buf, binary.BigEndian, signCount)       //nolint:errcheck
	buf.Write(aaguid[:])
	binary.Write(&buf, binary.BigEndian, uint16(len(credID))) //nolint:errcheck
	buf.Write(credID)
	buf.Write(coseKey)
	return buf.Bytes()
}

// buildCOSEPublicKeyES256 encodes a P-256 public key as a COSE_Key:
//
//	{1: 2 (kty EC2), 3: -7 (alg ES256), -1: 1 (crv P-256), -2: x, -3: y}
func buildCOSEPublicKeyES256(key *ecdsa.PrivateKey) ([]byte, error) {
	coseKey := map[int]interface{}{
		1:  2,
		3:  coseAlgES256,
		-1: 1,
		-2: padTo32(key.X.Bytes()),
		-3: padTo32(key.Y.Bytes()),
	}
	out, err := ctapEncMode.Marshal(coseKey)
	if err != nil {
		return nil, fmt.Errorf("webauthn: encode COSE key: %w", err)
	}
	return out, nil
}

// padTo32 left-pads an EC coordinate to 32 bytes.
func padTo32(b []byte) []byte {
	if len(b) >= 32 {
		return b[:32]
	}
	padded := make([]byte, 32)
	copy(padded[32-len(b):], b)
	return padded
}
