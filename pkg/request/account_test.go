package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginMasksPassword(t *testing.T) {
	expectedMap := map[string]string{"email": "email", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	loginReq := Login{Email: "email", Password: "password"}

	actual, _ := json.Marshal(loginReq)

	assert.EqualValues(t, expected, actual)
	assert.EqualValues(t, "password", loginReq.Password)
}

func TestSignupMasksPassword(t *testing.T) {
	signupReq := Signup{
		Email:     "email",
		Password:  "password",
		FirstName: "first",
		LastName:  "last",
	}

	actual, _ := json.Marshal(signupReq)

	assert.Contains(t, string(actual), `"password":"***"`)
	assert.EqualValues(t, "password", signupReq.Password)
}
