package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Phone    string `json:"phone" binding:"required,min=10,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=64"`
	Address  string `json:"address" binding:"omitempty,max=500"`
}

// LoginRequest 登录请求（手机号+密码）
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// OTPLoginRequest 短信登录请求（号码已由前端 Firebase 验证）
type OTPLoginRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo 用户信息（返回给前端）
type UserInfo struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Address string `json:"address"`
}

// UpdateProfileRequest 更新用户信息请求
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Address  *string `json:"address,omitempty" binding:"omitempty,max=500"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6,max=64"`
}
