package domain

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type DataResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

func Success(data any) DataResponse {
	return DataResponse{Status: StatusSuccess, Data: data}
}
