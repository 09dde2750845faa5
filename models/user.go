package models

import "github.com/uptrace/bun"

// RoleAdministrator may preview and import trial workbooks.
const RoleAdministrator = "administrator"

// User is an API user with bcrypt-hashed password.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int    `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username,notnull,unique" json:"username"`
	Password string `bun:"password,notnull" json:"-"`
	Role     string `bun:"role,notnull,nullzero,default:'user'" json:"role"`
}
