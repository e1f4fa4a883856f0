package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-tool-keeper/internal/app"
	"github.com/MKhiriev/go-tool-keeper/internal/service"
	"github.com/MKhiriev/go-tool-keeper/internal/store"
	"github.com/MKhiriev/go-tool-keeper/internal/validators"
	"github.com/MKhiriev/go-tool-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRegister_Success(t *testing.T) {
	f := newHandlerFixture(t, nil)
	user := models.User{Login: "alice", Password: "secret-pass"}

	f.auth.EXPECT().RegisterUser(gomock.Any(), user).Return(models.User{Login: "alice"}, nil)
	f.auth.EXPECT().CreateToken(gomock.Any(), models.User{Login: "alice"}).Return(models.Token{SignedString: "jwt"}, nil)

	rec := f.do(http.MethodPost, "/api/auth/register", user, false)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Bearer jwt", rec.Header().Get("Authorization"))
	assert.NotContains(t, rec.Body.String(), "secret-pass")
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "invalid data",
			err:        errors.Join(service.ErrInvalidDataProvided, validators.ErrShortPassword),
			wantStatus: http.StatusBadRequest,
			wantMsg:    app.MsgInvalidDataProvided,
		},
		{
			name:       "login taken",
			err:        store.ErrLoginAlreadyExists,
			wantStatus: http.StatusConflict,
			wantMsg:    app.MsgLoginAlreadyExists,
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    app.MsgInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHandlerFixture(t, nil)
			f.auth.EXPECT().RegisterUser(gomock.Any(), gomock.Any()).Return(models.User{}, tt.err)

			rec := f.do(http.MethodPost, "/api/auth/register", models.User{Login: "alice"}, false)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, errorBody(t, rec))
		})
	}
}

func TestRegister_InvalidJSON(t *testing.T) {
	f := newHandlerFixture(t, nil)

	rec := f.do(http.MethodPost, "/api/auth/register", "{", false)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, app.MsgInvalidDataProvided, errorBody(t, rec))
}

func TestLogin_Success(t *testing.T) {
	f := newHandlerFixture(t, nil)
	f.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.User{Login: "alice"}, nil)
	f.auth.EXPECT().CreateToken(gomock.Any(), gomock.Any()).Return(models.Token{SignedString: "jwt"}, nil)

	rec := f.do(http.MethodPost, "/api/auth/login", models.User{Login: "alice", Password: "secret-pass"}, false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bearer jwt", rec.Header().Get("Authorization"))
}

func TestLogin_BadCredentials(t *testing.T) {
	for _, err := range []error{store.ErrNoUserWasFound, service.ErrWrongPassword} {
		t.Run(err.Error(), func(t *testing.T) {
			f := newHandlerFixture(t, nil)
			f.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.User{}, err)

			rec := f.do(http.MethodPost, "/api/auth/login", models.User{Login: "alice", Password: "x"}, false)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, app.MsgInvalidLoginPassword, errorBody(t, rec))
		})
	}
}

func TestLogin_TokenCreationFails(t *testing.T) {
	f := newHandlerFixture(t, nil)
	f.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.User{Login: "alice"}, nil)
	f.auth.EXPECT().CreateToken(gomock.Any(), gomock.Any()).Return(models.Token{}, service.ErrTokenCreationFailed)

	rec := f.do(http.MethodPost, "/api/auth/login", models.User{Login: "alice", Password: "secret-pass"}, false)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Authorization"))
}
