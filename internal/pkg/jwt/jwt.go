package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/staffly/hrm-backend-go/internal/domain/employee"
)

// Service verifies access tokens issued by the auth collaborator. This
// backend never issues tokens itself.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	EmployeeID(token jwt.Token) (string, bool)
	Role(token jwt.Token) (employee.Role, bool)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// EmployeeID extracts the employee_id claim.
func (j *JWTService) EmployeeID(token jwt.Token) (string, bool) {
	v, ok := token.Get("employee_id")
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// Role extracts the role claim.
func (j *JWTService) Role(token jwt.Token) (employee.Role, bool) {
	v, ok := token.Get("role")
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return employee.Role(s), true
}
