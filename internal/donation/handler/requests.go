package handler

import (
	"bytes"
	"encoding/json"
)

type createDonationRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	Quantity        int             `json:"quantity"`
	PickupLatitude  json.RawMessage `json:"pickupLatitude"`
	PickupLongitude json.RawMessage `json:"pickupLongitude"`
}

type reserveRequest struct {
	PickupTime       string `json:"pickupTime"`
	PickupPersonName string `json:"pickupPersonName"`
	PickupPersonID   string `json:"pickupPersonId"`
}

// Accept is a pointer so an absent field is distinguishable from false.
type businessConfirmRequest struct {
	Accept *bool `json:"accept"`
}

type confirmRequest struct {
	VerificationCode string `json:"verificationCode"`
}

// rawCoordinate turns a JSON coordinate into the raw string form the geo
// normalizer validates. Clients send coordinates as numbers or strings; both
// arrive here verbatim, with null and absent fields collapsing to "".
func rawCoordinate(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return string(raw)
		}
		return s
	}
	return string(raw)
}
