package account_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/account"
	"github.com/jrsteele09/go-auth-client/credentials/storefakes"
	"github.com/jrsteele09/go-auth-client/transport"
)

func newService(t *testing.T, mux *http.ServeMux) *account.Service {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := transport.NewClient(server.URL, storefakes.NewFakeStoreWithToken("tok"))
	require.NoError(t, err)

	service, err := account.NewService(client)
	require.NoError(t, err)
	return service
}

func TestProfileRidesAuthenticatedTransport(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/profile", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": "user-1", "email": "a@b.co"}})
	})
	service := newService(t, mux)

	user, err := service.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "user-1", user.ID)
}

func TestUpdateProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/profile", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Jane", req["name"])
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": "user-1", "name": "Jane"}})
	})
	service := newService(t, mux)

	user, err := service.UpdateProfile(context.Background(), account.ProfileUpdate{Name: "Jane"})
	require.NoError(t, err)
	require.Equal(t, "Jane", user.Name)
}

func TestTwoFactorLifecycle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/2fa/generate", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		json.NewEncoder(w).Encode(map[string]string{"secret": "s3cret", "qrCode": "data:image/png;base64,xxx"})
	})
	mux.HandleFunc("/2fa/enable", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "s3cret", req["secret"])
		require.Equal(t, "123456", req["token"])
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})
	mux.HandleFunc("/2fa/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"enabled": true, "method": "totp"})
	})
	mux.HandleFunc("/2fa/disable", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})
	service := newService(t, mux)
	ctx := context.Background()

	setup, err := service.GenerateTwoFactor(ctx)
	require.NoError(t, err)
	require.Equal(t, "s3cret", setup.Secret)

	require.NoError(t, service.EnableTwoFactor(ctx, setup.Secret, "123456"))

	status, err := service.TwoFactorStatus(ctx)
	require.NoError(t, err)
	require.True(t, status.Enabled)
	require.Equal(t, "totp", status.Method)

	require.NoError(t, service.DisableTwoFactor(ctx, "Password123!"))
}

func TestFailedOperationIsLogged(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/users/password", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "current password is wrong"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client, err := transport.NewClient(server.URL, storefakes.NewFakeStoreWithToken("tok"))
	require.NoError(t, err)

	var buf bytes.Buffer
	service, err := account.NewService(client, account.WithLogger(zerolog.New(&buf)))
	require.NoError(t, err)

	err = service.ChangePassword(context.Background(), account.PasswordChange{
		CurrentPassword: "wrong",
		NewPassword:     "Password123!",
	})
	require.Error(t, err)
	require.Contains(t, buf.String(), "Password change failed")
	require.Contains(t, buf.String(), "current password is wrong")
}

func TestGenerateBackupCodes(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/2fa/backup-codes", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"codes": []string{"aaaa-1111", "bbbb-2222"}})
	})
	service := newService(t, mux)

	codes, err := service.GenerateBackupCodes(context.Background())
	require.NoError(t, err)
	require.Len(t, codes.Codes, 2)
}
