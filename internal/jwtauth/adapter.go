package jwtauth

import "givebridge/internal/platform/middleware"

// Adapter exposes the jwt Service through the middleware.TokenValidator
// interface so the middleware package does not import jwt directly.
type Adapter struct {
	service *Service
}

func NewAdapter(service *Service) *Adapter {
	return &Adapter{service: service}
}

func (a *Adapter) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	claims, err := a.service.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.TokenClaims{CallerID: claims.CallerID}, nil
}
