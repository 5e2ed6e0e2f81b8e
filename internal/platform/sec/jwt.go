// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

// Package sec provides token verification and the role model.
//
// # Architecture
//
// Access tokens are minted by the hosted auth provider, never by this service.
// We only verify them (HS256, shared secret) and read the identity claims the
// provider embeds: subject, email and the sign-up metadata.
package sec

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// UserMetadata is the free-form metadata captured by the provider at sign up.
type UserMetadata struct {
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// AuthClaims represents the payload of a provider-issued access token.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email        string       `json:"email"`
	Phone        string       `json:"phone,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata"`

	// AccessToken is the verified token itself, kept for calls back to the provider.
	AccessToken string `json:"-"`
}

// UserID returns the subject of the token.
func (claims *AuthClaims) UserID() string {
	return claims.Subject
}

// TokenVerifier verifies provider access tokens using the shared HS256 secret.
type TokenVerifier struct {
	secret   []byte
	audience string
}

// NewTokenVerifier creates a verifier. An empty audience disables the aud check.
func NewTokenVerifier(secret, audience string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth: empty token secret")
	}
	return &TokenVerifier{secret: []byte(secret), audience: audience}, nil
}

// VerifyToken checks the signature and validity of a JWT string.
func (verifier *TokenVerifier) VerifyToken(tokenString string) (*AuthClaims, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if verifier.audience != "" {
		options = append(options, jwt.WithAudience(verifier.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		return verifier.secret, nil
	}, options...)
	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	claims.AccessToken = tokenString
	return claims, nil
}
