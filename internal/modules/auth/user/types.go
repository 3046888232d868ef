package user

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrUsernameTaken      = errors.New("a user with that username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWrongPassword      = errors.New("wrong password")
	ErrPasswordSameAsOld  = errors.New("password same as old")
	ErrInvalidUsername    = errors.New("invalid username")
)

type RegisterForm struct {
	Username  string `form:"username"  binding:"required,min=3,max=150,username"`
	Email     string `form:"email"     binding:"omitempty,email,max=254"`
	Password1 string `form:"password1" binding:"required,min=8,max=128"`
	Password2 string `form:"password2" binding:"required,eqfield=Password1"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type ProfileForm struct {
	FirstName string `form:"first_name" binding:"max=150"`
	LastName  string `form:"last_name"  binding:"max=150"`
	Username  string `form:"username"   binding:"required,min=3,max=150,username"`
	Email     string `form:"email"      binding:"omitempty,email,max=254"`
}

type PasswordForm struct {
	OldPassword  string `form:"old_password"  binding:"required"`
	NewPassword1 string `form:"new_password1" binding:"required,min=8,max=128"`
	NewPassword2 string `form:"new_password2" binding:"required,eqfield=NewPassword1"`
}

// RegisterInput is a new account as accepted by Service.Register.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// ProfileInput carries the editable profile fields.
type ProfileInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
}
