package sessions

const (
	queryCreateSession = `
		INSERT INTO sessions (owner_id, kind, title, prompt, response)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, owner_id, kind, title, prompt, response, created_at
	`

	queryGetSession = `
		SELECT id, owner_id, kind, title, prompt, response, created_at
		FROM sessions
		WHERE id = $1 AND owner_id = $2
	`

	queryListRecentSessions = `
		SELECT id, owner_id, kind, title, prompt, response, created_at
		FROM sessions
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
)
