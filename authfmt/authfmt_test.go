package authfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateUserDefaultsRoleToViewer(t *testing.T) {
	assert.Equal(t, ".user create alice secret viewer", CreateUser("alice", "secret", ""))
}

func TestCreateUserExplicitRole(t *testing.T) {
	assert.Equal(t, ".user create alice secret admin", CreateUser("alice", "secret", "admin"))
}

func TestDropUser(t *testing.T) {
	assert.Equal(t, ".user drop alice", DropUser("alice"))
}

func TestSetPassword(t *testing.T) {
	assert.Equal(t, ".user password alice newsecret", SetPassword("alice", "newsecret"))
}

func TestSetRole(t *testing.T) {
	assert.Equal(t, ".user role alice admin", SetRole("alice", "admin"))
}

func TestListUsers(t *testing.T) {
	assert.Equal(t, ".user list", ListUsers())
}

func TestCreateAPIKey(t *testing.T) {
	assert.Equal(t, ".apikey create ci-runner", CreateAPIKey("ci-runner"))
}

func TestListAPIKeys(t *testing.T) {
	assert.Equal(t, ".apikey list", ListAPIKeys())
}

func TestRevokeAPIKey(t *testing.T) {
	assert.Equal(t, ".apikey revoke ci-runner", RevokeAPIKey("ci-runner"))
}

func TestGrantAccess(t *testing.T) {
	assert.Equal(t, ".kg acl grant prod alice admin", GrantAccess("prod", "alice", "admin"))
}

func TestRevokeAccess(t *testing.T) {
	assert.Equal(t, ".kg acl revoke prod alice", RevokeAccess("prod", "alice"))
}

func TestListACL(t *testing.T) {
	assert.Equal(t, ".kg acl list prod", ListACL("prod"))
}
