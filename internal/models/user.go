package models

type User struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	CPF              string `json:"cpf"`
	BirthDate        string `json:"birthDate"`
	PhoneCountryCode string `json:"phoneCountryCode,omitempty"`
	PhoneAreaCode    string `json:"phoneAreaCode,omitempty"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
	PhotoURL         string `json:"photoUrl,omitempty"`
	Role             string `json:"role,omitempty"`
}

// APIUser is the GraphQL UserFields fragment.
type APIUser struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	CPF              string  `json:"cpf"`
	BirthDate        string  `json:"birthDate"`
	PhoneCountryCode *string `json:"phoneCountryCode"`
	PhoneAreaCode    *string `json:"phoneAreaCode"`
	PhoneNumber      *string `json:"phoneNumber"`
	PhotoURL         *string `json:"photoUrl"`
	Role             string  `json:"role"`
}

func (u APIUser) ToUser() User {
	return User{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		CPF:              u.CPF,
		BirthDate:        u.BirthDate,
		PhoneCountryCode: deref(u.PhoneCountryCode),
		PhoneAreaCode:    deref(u.PhoneAreaCode),
		PhoneNumber:      deref(u.PhoneNumber),
		PhotoURL:         deref(u.PhotoURL),
		Role:             u.Role,
	}
}

type AuthPayload struct {
	Token string  `json:"token"`
	User  APIUser `json:"user"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	CPF              string `json:"cpf" validate:"required"`
	BirthDate        string `json:"birthDate" validate:"required"`
	PhoneCountryCode string `json:"phoneCountryCode"`
	PhoneAreaCode    string `json:"phoneAreaCode"`
	PhoneNumber      string `json:"phoneNumber"`
}

type PhoneInput struct {
	PhoneCountryCode string `json:"phoneCountryCode"`
	PhoneAreaCode    string `json:"phoneAreaCode"`
	PhoneNumber      string `json:"phoneNumber"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ProfileUpdate is merged into the session's user without a remote call.
type ProfileUpdate struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=2"`
	BirthDate *string `json:"birthDate,omitempty"`
	PhotoURL  *string `json:"photoUrl,omitempty" validate:"omitempty,url"`
}
