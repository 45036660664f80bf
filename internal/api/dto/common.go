package dto

// SuccessResponse is returned by mutations that have nothing else to report
type SuccessResponse struct {
	Success bool `json:"success"`
}

// DataResponse wraps a created entity the way the create endpoints always have
type DataResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func NewDataResponse[T any](data T) DataResponse[T] {
	return DataResponse[T]{Success: true, Data: data}
}
