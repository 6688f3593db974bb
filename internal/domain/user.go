package domain

import "github.com/golang-jwt/jwt/v5"

// Claims são as informações carregadas no token emitido pelo serviço de login
type Claims struct {
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	UserRoleID int    `json:"role_id"`
	jwt.RegisteredClaims
}
