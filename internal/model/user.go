package model

import "time"

// RoleLoginUser is assigned to every account created through signup.
const RoleLoginUser = "LoginUser"

// User represents an application user record as stored in the
// `users` table. Username and email are both unique.
//
// Fields:
//  ID             – primary key identifier of the user.
//  Username       – unique login name.
//  Email          – unique email address.
//  PasswordDigest – bcrypt hashed password.
//  Role           – name of the role (LoginUser for self-signup).
//  CreatedAt      – timestamp of creation.
type User struct {
    ID             uint64    // users.id
    Username       string    // users.username
    Email          string    // users.email
    PasswordDigest string    // users.password_digest
    Role           string    // users.role
    CreatedAt      time.Time // users.created_at
}
