package db

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/padraicbc/trialapi/models"
)

// Users reads and writes API accounts.
type Users struct {
	db bun.IDB
}

func NewUsers(db bun.IDB) *Users {
	return &Users{db: db}
}

// ByUsername returns the user or sql.ErrNoRows.
func (u *Users) ByUsername(ctx context.Context, username string) (*models.User, error) {
	user := new(models.User)
	err := u.db.NewSelect().Model(user).Where("u.username = ?", username).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Save inserts the user, replacing password and role when the username exists.
func (u *Users) Save(ctx context.Context, user *models.User) error {
	_, err := u.db.NewInsert().Model(user).
		On("CONFLICT (username) DO UPDATE SET password = EXCLUDED.password, role = EXCLUDED.role").
		Exec(ctx)
	return err
}
