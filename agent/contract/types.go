package contract

const (
	ServiceName    = "customer-support-crewai"
	ServiceTitle   = "Customer Support CrewAI API"
	ServiceVersion = "1.0.0"

	HealthPath  = "/health"
	InquiryPath = "/support/inquiry"
	APIInfoPath = "/api"
)

type InquiryRequest struct {
	Customer string `json:"customer"`
	Person   string `json:"person"`
	Inquiry  string `json:"inquiry"`
}

// InquiryResponse mirrors the wire shape: unset fields encode as null.
type InquiryResponse struct {
	Success  bool    `json:"success"`
	Response *string `json:"response"`
	Error    *string `json:"error"`
}

func Answered(text string) InquiryResponse {
	return InquiryResponse{Success: true, Response: &text}
}

// Text returns the response text, or "" when none was sent.
func (r InquiryResponse) Text() string {
	if r.Response == nil {
		return ""
	}
	return *r.Response
}

type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type Endpoints struct {
	Health  string `json:"health"`
	Support string `json:"support"`
}

type APIInfo struct {
	Message   string    `json:"message"`
	Version   string    `json:"version"`
	Endpoints Endpoints `json:"endpoints"`
}

// ErrorDetail is the body of every non-2xx response. Detail is a string for
// processing failures and a list of FieldError for validation failures.
type ErrorDetail struct {
	Detail any `json:"detail"`
}

type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func NewHealth() Health {
	return Health{Status: "healthy", Service: ServiceName}
}

func NewAPIInfo() APIInfo {
	return APIInfo{
		Message: ServiceTitle,
		Version: ServiceVersion,
		Endpoints: Endpoints{
			Health:  HealthPath,
			Support: InquiryPath,
		},
	}
}
