package websocket

type ConnectParams struct {
	Token string `form:"token" binding:"required"` // jwt token identifying the feed owner
	Limit int    `form:"limit"`                    // optional snapshot size, defaults to the feed bound
}
