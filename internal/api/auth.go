package api

import "context"

// Login exchanges credentials for a token and user profile. Bad
// credentials come back as *Error with the server message intact.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.post(ctx, "/api/auth/login", LoginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
