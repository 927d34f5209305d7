package utils

import (
	"time"

	"clinicore-service/internal/pkg/constvars"
	"clinicore-service/internal/pkg/exceptions"

	"github.com/golang-jwt/jwt/v4"
)

func GenerateSessionJWT(uid, role, secret string, jwtExpiryTimeInHours int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  uid,
		"role": role,
		"exp":  time.Now().Add(time.Duration(jwtExpiryTimeInHours) * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func ParseSessionJWT(tokenString, secret string) (uid string, role string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, exceptions.ErrMissingSession(nil)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", exceptions.ErrMissingSession(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", exceptions.ErrMissingSession(nil)
	}

	uid, _ = claims["uid"].(string)
	role, _ = claims["role"].(string)
	if uid == "" {
		return "", "", exceptions.ErrMissingSession(nil)
	}
	if role == "" {
		role = constvars.RolePatient
	}
	return uid, role, nil
}
