// Copyright (c) 2026 Bazaari. All rights reserved.
// Author: The Bazaari Authors

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bazaari/bazaari/internal/platform/apperr"
	"github.com/bazaari/bazaari/internal/platform/ctxutil"
	"github.com/bazaari/bazaari/internal/platform/respond"
	"github.com/bazaari/bazaari/internal/platform/sec"
)

// TokenVerifier verifies provider-issued access tokens.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// PrincipalBinder turns verified claims into a resolved principal stored on the context.
type PrincipalBinder interface {
	Bind(ctx context.Context, claims *sec.AuthClaims) (context.Context, error)
}

// RoleOf reports the resolved role of the principal bound to ctx.
type RoleOf func(ctx context.Context) (sec.UserRole, bool)

// Authenticate extracts and verifies the bearer token from the Authorization header.
//
// # Flow
//  1. No header: the request proceeds as anonymous.
//  2. Malformed header or invalid token: 401.
//  3. Valid token: claims are stored in the context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, tokenStr, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || tokenStr == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithClaims(request.Context(), claims)
			ctxutil.GetLogger(ctx).DebugContext(ctx, "token_verified")
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// BindPrincipal resolves the principal for authenticated requests.
//
// Must be registered AFTER [Authenticate]. Anonymous requests pass through untouched.
func BindPrincipal(binder PrincipalBinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetClaims(request.Context())
			if claims == nil {
				next.ServeHTTP(writer, request)
				return
			}

			ctx, err := binder.Bind(request.Context(), claims)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetClaims(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose resolved role is below the target.
//
// It implies [RequireAuth]. Handlers serving privileged panels still re-check
// their capability at render time; this guard only narrows the route surface.
func RequireRole(role sec.UserRole, roleOf RoleOf) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Authentication Check ───────────────────────────────────────
			current, ok := roleOf(request.Context())
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !current.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
