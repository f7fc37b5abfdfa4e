package dto

// Res is the envelope for simple code/message responses
type Res struct {
	ResponseCode    string `json:"response_code"`
	ResponseMessage string `json:"response_message"`
}

type ResUser struct {
	Res
	Data interface{} `json:"data,omitempty"`
}
