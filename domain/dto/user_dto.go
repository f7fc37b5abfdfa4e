package dto

// ReqLogin is the login request body
type ReqLogin struct {
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ReqRegister is the registration request body
type ReqRegister struct {
	Name     string `json:"name" binding:"required"`
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ResLogin struct {
	Res
	AccessToken string `json:"access_token,omitempty"`
}
