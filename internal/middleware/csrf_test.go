// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/session"
)

// csrfHandler wraps an OK handler in NewCSRF(false).
func csrfHandler() http.Handler {
	return NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

// issueToken performs a GET and returns the CSRF cookie it received.
func issueToken(t *testing.T, h http.Handler) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/posts", nil))
	for _, c := range rr.Result().Cookies() {
		if c.Name == CSRFCookieName {
			return c
		}
	}
	t.Fatal("CSRF cookie not set")
	return nil
}

var sessionCookie = &http.Cookie{Name: session.CookieName, Value: "abc"}

func TestNewCSRFSecureFlag(t *testing.T) {
	for _, secure := range []bool{true, false} {
		h := NewCSRF(secure)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		c := issueToken(t, h)
		if c.Secure != secure {
			t.Errorf("cookie Secure: got %v, want %v", c.Secure, secure)
		}
		if c.SameSite != http.SameSiteStrictMode {
			t.Errorf("cookie SameSite: got %v, want StrictMode", c.SameSite)
		}
		if c.Value == "" {
			t.Error("cookie Value should not be empty")
		}
	}
}

func TestCSRFRejectsSessionMutationWithoutToken(t *testing.T) {
	h := csrfHandler()
	token := issueToken(t, h)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/posts/1", nil)
			req.AddCookie(token)
			req.AddCookie(sessionCookie)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != http.StatusForbidden {
				t.Errorf("%s without token: got %d, want 403", method, rr.Code)
			}
			if code := errorCode(t, rr); code != "csrf" {
				t.Errorf("code: got %q", code)
			}
		})
	}
}

func TestCSRFAcceptsValidToken(t *testing.T) {
	h := csrfHandler()
	token := issueToken(t, h)

	req := httptest.NewRequest(http.MethodPost, "/posts", nil)
	req.AddCookie(token)
	req.AddCookie(sessionCookie)
	req.Header.Set(CSRFHeaderName, token.Value)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("POST with valid token: got %d, want 200", rr.Code)
	}
}

func TestCSRFRejectsWrongToken(t *testing.T) {
	h := csrfHandler()
	token := issueToken(t, h)

	req := httptest.NewRequest(http.MethodPost, "/posts", nil)
	req.AddCookie(token)
	req.AddCookie(sessionCookie)
	req.Header.Set(CSRFHeaderName, "not-the-token")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("POST with wrong token: got %d, want 403", rr.Code)
	}
}

func TestCSRFAnonymousMutationPassesThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/posts/hello/comments", nil)
	rr := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("anonymous POST: got %d, want 200", rr.Code)
	}
}

func TestCSRFSafeMethodsPassThrough(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/posts", nil)
			req.AddCookie(sessionCookie)
			rr := httptest.NewRecorder()
			csrfHandler().ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200", rr.Code)
			}
		})
	}
}

func TestCSRFReusesExistingCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing"})
	rr := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rr, req)

	for _, c := range rr.Result().Cookies() {
		if c.Name == CSRFCookieName {
			t.Errorf("a new CSRF cookie was issued: %q", c.Value)
		}
	}
}
