package webauthn

// CreationOptions is the relay-party challenge envelope the portal's FIDO2
// branch returns from its attestation-options endpoint.
type CreationOptions struct {
	PublicKey PublicKeyCredentialCreationOptions `json:"publicKey"`
}

// PublicKeyCredentialCreationOptions mirrors the WebAuthn registration
// options dictionary. Only the members the flow consumes are modelled.
type PublicKeyCredentialCreationOptions struct {
	Challenge        string                `json:"challenge"`
	RP               RelyingParty          `json:"rp"`
	User             User                  `json:"user"`
	PubKeyCredParams []CredentialParameter `json:"pubKeyCredParams"`
	Timeout          int                   `json:"timeout,omitempty"`
	Attestation      string                `json:"attestation,omitempty"`
}

// RelyingParty identifies the portal to the authenticator.
type RelyingParty struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// User identifies the account being registered.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// CredentialParameter is one acceptable credential algorithm.
type CredentialParameter struct {
	Type string `json:"type"`
	Alg  int    `json:"alg"`
}

// CredentialCreationResponse is the credential the authenticator produced,
// in the shape the portal's attestation-result endpoint expects.
type CredentialCreationResponse struct {
	ID       string              `json:"id"`
	RawID    string              `json:"rawId"`
	Type     string              `json:"type"`
	Response AttestationResponse `json:"response"`
}

// AttestationResponse carries the two authenticator outputs of a
// registration ceremony, base64url-encoded.
type AttestationResponse struct {
	ClientDataJSON    string `json:"clientDataJSON"`
	AttestationObject string `json:"attestationObject"`
}

// clientData is the collected client data hashed into the attestation
// signature.
type clientData struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Origin    string `json:"origin"`
}
