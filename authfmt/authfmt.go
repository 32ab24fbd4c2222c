// Package authfmt formats the executor's user/API-key/ACL meta-commands:
// one-line ".user"/".apikey"/".kg acl" directives understood by the
// knowledge-graph engine alongside ordinary Datalog programs.
//
// Grounded on original_source's auth.py — a pure string-formatting
// concern, kept here rather than in compiler since these commands never
// pass through dlast/the Datalog grammar at all.
package authfmt

import "fmt"

// UserInfo describes one registered user, one row of what the command
// built by ListUsers lists.
type UserInfo struct {
	Username string
	Role     string
}

// ApiKeyInfo describes one issued API key, one row of what the command
// built by ListAPIKeys lists.
type ApiKeyInfo struct {
	Label     string
	CreatedAt string
}

// AclEntry describes one access grant, one row of what the command built
// by ListACL lists.
type AclEntry struct {
	Username string
	Role     string
}

// CreateUser formats a ".user create" command. Role defaults to "viewer"
// when empty, matching the source's default parameter.
func CreateUser(username, password, role string) string {
	if role == "" {
		role = "viewer"
	}
	return fmt.Sprintf(".user create %s %s %s", username, password, role)
}

// DropUser formats a ".user drop" command.
func DropUser(username string) string {
	return fmt.Sprintf(".user drop %s", username)
}

// SetPassword formats a ".user password" command.
func SetPassword(username, newPassword string) string {
	return fmt.Sprintf(".user password %s %s", username, newPassword)
}

// SetRole formats a ".user role" command.
func SetRole(username, role string) string {
	return fmt.Sprintf(".user role %s %s", username, role)
}

// ListUsers formats a ".user list" command.
func ListUsers() string {
	return ".user list"
}

// CreateAPIKey formats an ".apikey create" command.
func CreateAPIKey(label string) string {
	return fmt.Sprintf(".apikey create %s", label)
}

// ListAPIKeys formats an ".apikey list" command.
func ListAPIKeys() string {
	return ".apikey list"
}

// RevokeAPIKey formats an ".apikey revoke" command.
func RevokeAPIKey(label string) string {
	return fmt.Sprintf(".apikey revoke %s", label)
}

// GrantAccess formats a ".kg acl grant" command.
func GrantAccess(kg, username, role string) string {
	return fmt.Sprintf(".kg acl grant %s %s %s", kg, username, role)
}

// RevokeAccess formats a ".kg acl revoke" command.
func RevokeAccess(kg, username string) string {
	return fmt.Sprintf(".kg acl revoke %s %s", kg, username)
}

// ListACL formats a ".kg acl list" command.
func ListACL(kg string) string {
	return fmt.Sprintf(".kg acl list %s", kg)
}
