package commerce

import (
	"context"
	"net/http"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenEnvelope struct {
	Token string `json:"token"`
}

// Register obtains a registration token for a new customer identity. The
// backend owns credential storage; the storefront never hashes or persists
// passwords.
func (cl *Client) Register(c context.Context, creds Credentials) (string, error) {
	wrapper := tokenEnvelope{}
	err := cl.do(c, http.MethodPost, "/auth/customer/emailpass/register", nil, creds, &wrapper)
	if err != nil {
		return "", err
	}
	return wrapper.Token, nil
}

func (cl *Client) Login(c context.Context, creds Credentials) (string, error) {
	wrapper := tokenEnvelope{}
	err := cl.do(c, http.MethodPost, "/auth/customer/emailpass", nil, creds, &wrapper)
	if err != nil {
		return "", err
	}
	return wrapper.Token, nil
}

func (cl *Client) Logout(c context.Context) error {
	return cl.do(c, http.MethodDelete, "/auth/session", nil, nil, nil)
}
