package types

// StatusSuccess is the status value listing and detail endpoints report on success.
const StatusSuccess = "success"

type SuccessEnvelope struct {
	Status string `json:"status,omitempty"`
	Data   any    `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
