package model

// InitOTPRequest is the body of POST /api/auth/initOtpAuth
type InitOTPRequest struct {
	OTPType string `json:"otpType"` // "OTP_TYPE_EMAIL" or "OTP_TYPE_SMS"
	Contact string `json:"contact"`
}

// InitOTPResponse is returned by POST /api/auth/initOtpAuth
type InitOTPResponse struct {
	OTPID          string `json:"otpId"`
	OrganizationID string `json:"organizationId"`
}

// OTPAuthRequest is the body of POST /api/auth/otpAuth
type OTPAuthRequest struct {
	OTPID             string `json:"otpId"`
	OTPCode           string `json:"otpCode"`
	OrganizationID    string `json:"organizationId"`
	TargetPublicKey   string `json:"targetPublicKey"`
	ExpirationSeconds string `json:"expirationSeconds"`
}

// OAuthLoginRequest is the body of POST /api/auth/oAuthLogin
type OAuthLoginRequest struct {
	OIDCToken         string `json:"oidcToken"`
	ProviderName      string `json:"providerName"`
	TargetPublicKey   string `json:"targetPublicKey"`
	ExpirationSeconds string `json:"expirationSeconds"`
}

// CredentialResponse is returned by otpAuth and oAuthLogin
type CredentialResponse struct {
	CredentialBundle string `json:"credentialBundle"`
	OrganizationID   string `json:"organizationId,omitempty"`
}

// Passkey is a WebAuthn attestation registered for a new sub-organization
type Passkey struct {
	Challenge   string `json:"challenge"`
	Attestation struct {
		CredentialID      string   `json:"credentialId"`
		ClientDataJSON    string   `json:"clientDataJson"`
		AttestationObject string   `json:"attestationObject"`
		Transports        []string `json:"transports,omitempty"`
	} `json:"attestation"`
}

// CreateSubOrgRequest is the body of POST /api/auth/createSubOrg
type CreateSubOrgRequest struct {
	Passkey Passkey `json:"passkey"`
}

// CreateSubOrgResponse is returned by POST /api/auth/createSubOrg
type CreateSubOrgResponse struct {
	SubOrganizationID string `json:"subOrganizationId"`
}

// LoginRequest represents request for POST /auth/login
type LoginRequest struct {
	Method  string `json:"method" binding:"required"` // google, apple, email, sms, wallet
	Token   string `json:"token,omitempty"`           // OIDC token for oauth methods
	Contact string `json:"contact,omitempty"`
}

// OTPInitRequest represents request for POST /auth/otp/init
type OTPInitRequest struct {
	OTPType string `json:"otpType" binding:"required"` // email or sms
	Contact string `json:"contact" binding:"required"`
}

// OTPInitResponse represents response for POST /auth/otp/init
type OTPInitResponse struct {
	OTPID string `json:"otpId"`
}

// OTPVerifyRequest represents request for POST /auth/otp/verify
type OTPVerifyRequest struct {
	Code string `json:"code" binding:"required"`
}
