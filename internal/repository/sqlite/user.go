package sqlite

import (
	"log/slog"

	"github.com/garnizeh/rentals/internal/db"
	"github.com/garnizeh/rentals/pkg/models"
	"github.com/garnizeh/rentals/pkg/repository"
)

// UserSchema maps models.User onto the users table. The login flag is
// stored as 0 or 1.
var UserSchema = Schema[models.User]{
	Table: repository.TableUsers,
	Columns: []Column{
		{Name: "username", Type: Text, NotNull: true, Indexed: true},
		{Name: "password", Type: Text, NotNull: true},
		{Name: "is_logged_in", Type: Integer, NotNull: true, Default: "0"},
	},
	Encode: func(u *models.User) Row {
		var flag int64
		if u.IsLoggedIn {
			flag = 1
		}
		return Row{
			"username":     u.Username,
			"password":     u.Password,
			"is_logged_in": flag,
		}
	},
	Decode: func(row Row) (*models.User, error) {
		var u models.User
		var flag int64
		for name, dst := range map[string]any{
			"id":           &u.ID,
			"username":     &u.Username,
			"password":     &u.Password,
			"is_logged_in": &flag,
		} {
			if err := field(row, name, dst); err != nil {
				return nil, err
			}
		}
		u.IsLoggedIn = flag != 0
		return &u, nil
	},
}

// NewUserStore returns an uninitialized store for the users table.
func NewUserStore(conn *db.DB, logger *slog.Logger) (*Store[models.User], error) {
	return NewStore(conn, UserSchema, logger)
}
