package user

// Full rows carry password_hash; projected rows never do. Only the
// date-sorted listing exposes deleted_at, matching what each read path
// is allowed to see.
const (
	fullColumns      = `id, username, email, email_recuperacion, password_hash, rol, online, created_at, updated_at, deleted_at`
	projectedColumns = `id, username, email, email_recuperacion, rol, online, created_at, updated_at`

	SelectUserByID = `
		SELECT ` + fullColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`
	SelectUserByUsername = `
		SELECT ` + fullColumns + `
		FROM users
		WHERE username = $1 AND deleted_at IS NULL
	`
	SelectUserByEmail = `
		SELECT ` + fullColumns + `
		FROM users
		WHERE email = $1 AND deleted_at IS NULL
	`
	SelectUserByRecoveryEmail = `
		SELECT ` + fullColumns + `
		FROM users
		WHERE email_recuperacion = $1 AND deleted_at IS NULL
	`

	SelectUsersPageAsc = `
		SELECT ` + projectedColumns + `
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`
	SelectUsersPageDesc = `
		SELECT ` + projectedColumns + `
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`
	CountActiveUsers = `SELECT count(*) FROM users WHERE deleted_at IS NULL`

	// filled with an optional WHERE clause, a whitelisted timestamp
	// column and a validated direction
	selectUsersSortedTpl = `
		SELECT ` + projectedColumns + `, deleted_at
		FROM users
		%s
		ORDER BY %s %s
		LIMIT $1 OFFSET $2
	`
	activeOnlyClause = `WHERE deleted_at IS NULL`

	SelectUsersByRole = `
		SELECT ` + projectedColumns + `
		FROM users
		WHERE rol = $1 AND deleted_at IS NULL
		ORDER BY id ASC
	`
	SelectOnlineUsers = `
		SELECT ` + projectedColumns + `
		FROM users
		WHERE online = TRUE AND deleted_at IS NULL
		ORDER BY id ASC
	`

	InsertUser = `
		INSERT INTO users (username, email, email_recuperacion, password_hash, rol, online)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + fullColumns + `
	`
	UpdateUserByID = `
		UPDATE users
		SET username = $1,
		    email = $2,
		    email_recuperacion = $3,
		    password_hash = $4,
		    rol = $5,
		    online = $6,
		    updated_at = now()
		WHERE id = $7 AND deleted_at IS NULL
		RETURNING ` + fullColumns + `
	`
	SetUserOnlineByID = `
		UPDATE users
		SET online = $1,
		    updated_at = now()
		WHERE id = $2 AND deleted_at IS NULL
		RETURNING ` + fullColumns + `
	`
	SoftDeleteUserByID = `
		UPDATE users
		SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + fullColumns + `
	`
)
