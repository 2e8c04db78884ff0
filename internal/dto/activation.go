package dto

// ActivateLicenseRequest is the body of POST /api/v1/license/activate
type ActivateLicenseRequest struct {
	LicenseKey string `json:"license_key" binding:"required"`
	DeviceID   string `json:"device_id"`
}

// ActivateLicenseResponse is returned after a successful activation
type ActivateLicenseResponse struct {
	OrganizationID string `json:"organization_id"`
	IsNewOrg       bool   `json:"is_new_org"`
	Plan           string `json:"plan"`
}
