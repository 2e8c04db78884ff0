package dto

import "time"

// GenerateLicenseRequest is the body of POST /api/v1/admin/licenses.
// Plan is optional and defaults to basic.
type GenerateLicenseRequest struct {
	Plan string `json:"plan"`
	Memo string `json:"memo"`
}

// GenerateLicenseResponse returns the freshly issued key. This is the only
// time the plaintext key leaves the server through the admin surface.
type GenerateLicenseResponse struct {
	LicenseKey string    `json:"key"`
	Plan       string    `json:"plan"`
	Memo       string    `json:"memo,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// LicenseKeyInfo is one entry of the admin key listing
type LicenseKeyInfo struct {
	LicenseKey string    `json:"license_key"`
	Plan       string    `json:"plan"`
	Memo       string    `json:"memo,omitempty"`
	Activated  bool      `json:"activated"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListLicensesResponse is returned by GET /api/v1/admin/licenses
type ListLicensesResponse struct {
	Licenses []LicenseKeyInfo `json:"licenses"`
	Total    int              `json:"total"`
}
