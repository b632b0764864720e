package identity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/identity"
)

func TestIdentityMarshalAlwaysCarriesProfile(t *testing.T) {
	user := identity.Identity{ID: "user-1", Email: "a@b.co"}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	require.Contains(t, fields, "profile", "an empty profile still serializes")
	require.Contains(t, fields, "createdAt")
	require.Contains(t, fields, "updatedAt")
}

func TestIdentityRoundTripPreservesProfile(t *testing.T) {
	user := identity.Identity{
		ID:      "user-1",
		Name:    "John Doe",
		Email:   "a@b.co",
		Role:    identity.RoleUser,
		Profile: identity.Profile{Bio: "hello", Location: "Leeds"},
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var decoded identity.Identity
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, user.Profile, decoded.Profile)
}
