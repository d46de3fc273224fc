package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-secret"

func TestBuildAndParseToken(t *testing.T) {
	theAuth := New([]byte(testSecret), time.Hour)

	token, err := theAuth.BuildToken("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := theAuth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestParseExpiredToken(t *testing.T) {
	issuer := New([]byte(testSecret), -time.Minute)

	token, err := issuer.BuildToken("user-1")
	require.NoError(t, err)

	verifier := New([]byte(testSecret), time.Hour)
	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseForeignSignatureToken(t *testing.T) {
	issuer := New([]byte("some-other-secret"), time.Hour)

	token, err := issuer.BuildToken("user-1")
	require.NoError(t, err)

	verifier := New([]byte(testSecret), time.Hour)
	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseMalformedToken(t *testing.T) {
	theAuth := New([]byte(testSecret), time.Hour)

	_, err := theAuth.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateMiddleware(t *testing.T) {
	theAuth := New([]byte(testSecret), time.Hour)

	validToken, err := theAuth.BuildToken("user-42")
	require.NoError(t, err)

	foreignToken, err := New([]byte("some-other-secret"), time.Hour).BuildToken("user-42")
	require.NoError(t, err)

	testCases := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID string
	}{
		{
			name:           "no header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "not a bearer scheme",
			authHeader:     "Token " + validToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			authHeader:     "Bearer garbage",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "foreign signature",
			authHeader:     "Bearer " + foreignToken,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectedUserID: "user-42",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var seenUserID string
			next := http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
				seenUserID, _ = request.Context().Value(UserIDKey).(string)
				response.WriteHeader(http.StatusOK)
			})

			request := httptest.NewRequest(http.MethodGet, "/memo", nil)
			if testCase.authHeader != "" {
				request.Header.Set("Authorization", testCase.authHeader)
			}
			recorder := httptest.NewRecorder()

			theAuth.Authenticate(next).ServeHTTP(recorder, request)

			assert.Equal(t, testCase.expectedStatus, recorder.Code)
			if testCase.expectedUserID != "" {
				assert.Equal(t, testCase.expectedUserID, seenUserID)
			}
		})
	}
}
